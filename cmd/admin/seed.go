package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"coursetracker/internal/service"
)

// courseColumns maps accepted CSV header names to course fields
var courseColumns = map[string]string{
	"name":                   "name",
	"course":                 "name",
	"link":                   "url",
	"url":                    "url",
	"category":               "category",
	"description":            "description",
	"about":                  "about",
	"syllabus":               "syllabus",
	"notes":                  "notes",
	"weekly_commitment_low":  "low",
	"weekly_low":             "low",
	"weekly_commitment_high": "high",
	"weekly_high":            "high",
	"duration_weeks":         "weeks",
	"duration":               "weeks",
}

func (cli *commandLine) seed(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("seed")
	categoriesPath := cmd.String("categories", "", "Text file with one category name per line (required)")
	coursesPath := cmd.String("courses", "", "CSV file of courses with a header row")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *categoriesPath == "" {
		cmd.Usage()
		return errHelp
	}

	actor, err := cli.operator(ctx)
	if err != nil {
		return err
	}

	names, err := readCategories(*categoriesPath)
	if err != nil {
		return err
	}
	added := 0
	for _, name := range names {
		if _, err := cli.catalog.AddCategory(ctx, actor, name); err != nil {
			if errors.Is(err, service.ErrCategoryExists) {
				continue
			}
			return fmt.Errorf("category %q: %w", name, err)
		}
		added++
	}
	fmt.Fprintf(cli.out, "categories: %d added, %d already present\n", added, len(names)-added)

	if *coursesPath == "" {
		return nil
	}

	f, err := os.Open(*coursesPath)
	if err != nil {
		return fmt.Errorf("failed to open courses file: %w", err)
	}
	defer f.Close()

	courses, err := readCourses(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *coursesPath, err)
	}
	added = 0
	for _, course := range courses {
		if _, err := cli.catalog.AddCourse(ctx, actor, course); err != nil {
			if errors.Is(err, service.ErrCourseExists) {
				continue
			}
			return fmt.Errorf("course %q: %w", course.Name, err)
		}
		added++
	}
	fmt.Fprintf(cli.out, "courses: %d added, %d already present\n", added, len(courses)-added)
	return nil
}

func readCategories(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open categories file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return names, nil
}

// readCourses parses a course CSV. The header row names the columns; unknown
// columns are ignored and empty numeric cells read as zero.
func readCourses(r io.Reader) ([]service.CourseInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	fields := make([]string, len(header))
	for i, col := range header {
		fields[i] = courseColumns[strings.ToLower(strings.TrimSpace(col))]
	}

	var courses []service.CourseInput
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var course service.CourseInput
		for i, value := range record {
			if i >= len(fields) {
				break
			}
			value = strings.TrimSpace(value)
			switch fields[i] {
			case "name":
				course.Name = value
			case "url":
				course.URL = value
			case "category":
				course.Category = value
			case "description":
				course.Description = value
			case "about":
				course.About = value
			case "syllabus":
				course.Syllabus = value
			case "notes":
				course.Notes = value
			case "low", "high", "weeks":
				n, err := parseCount(value)
				if err != nil {
					return nil, fmt.Errorf("line %d: column %q: %w", line, header[i], err)
				}
				switch fields[i] {
				case "low":
					course.WeeklyCommitmentLow = n
				case "high":
					if value != "" {
						course.WeeklyCommitmentHigh = &n
					}
				default:
					course.DurationWeeks = n
				}
			}
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func parseCount(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
