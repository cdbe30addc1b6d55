package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCollectsArchiveAndLeaderboard(t *testing.T) {
	f := newFixture(t, 0)
	exports := NewExportService(Deps{Store: f.store, Now: f.clock.Now}, f.archive, f.reports)

	bob := f.member(t, "bob@x.com", "Bob")
	f.course(t, "Math", "Algebra")
	f.grant(t, bob, "Math")
	f.logWork(t, bob, "Algebra", 90)
	_, err := f.catalog.DeleteCourse(f.ctx, f.admin, "Algebra", "retired")
	require.NoError(t, err)

	data, err := exports.Export(f.ctx, f.admin)
	require.NoError(t, err)

	assert.Equal(t, ExportVersion, data.Version)
	require.Len(t, data.Archive, 1)
	assert.Equal(t, "Bob", data.Archive[0].User)
	assert.Equal(t, "Algebra", data.Archive[0].Course)
	assert.EqualValues(t, 90, data.Archive[0].Duration)

	// archived logs no longer count towards the leaderboard
	require.Len(t, data.Leaderboard, 2)
	for _, row := range data.Leaderboard {
		assert.EqualValues(t, 0, row.TotalSeconds)
		assert.Equal(t, "0:00:00", row.Total)
	}
}

func TestExportRequiresAdmin(t *testing.T) {
	f := newFixture(t, 0)
	exports := NewExportService(Deps{Store: f.store}, f.archive, f.reports)
	bob := f.member(t, "bob@x.com", "Bob")

	_, err := exports.Export(f.ctx, bob)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWriteExportFormats(t *testing.T) {
	data := &ExportData{
		Version: ExportVersion,
		Leaderboard: []LeaderboardExport{
			{Rank: 1, Identity: "abc", Name: "Bob", TotalSeconds: 3725, Total: "1:02:05"},
		},
		Archive: []ArchiveExport{
			{BatchID: "b1", User: "Bob", Course: "Algebra", Category: "Math", Duration: 90},
		},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, data))

		var decoded ExportData
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "1:02:05", decoded.Leaderboard[0].Total)
		assert.Equal(t, "b1", decoded.Archive[0].BatchID)
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteXLSX(&buf, data))

		book, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer book.Close()

		assert.Equal(t, []string{leaderboardSheet, archiveSheet}, book.GetSheetList())

		rows, err := book.GetRows(leaderboardSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"1", "abc", "Bob", "3725", "1:02:05"}, rows[1])

		rows, err = book.GetRows(archiveSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Algebra", rows[1][3])
	})
}
