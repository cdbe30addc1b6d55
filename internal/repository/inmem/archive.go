package inmem

import (
	"context"
	"slices"

	"coursetracker/internal/models"
)

type archiveRepo struct{ st *Store }

func (r *archiveRepo) Insert(ctx context.Context, entry *models.ArchiveEntry) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("archive.Insert"); err != nil {
		return err
	}
	entry.ID = r.st.s.t.nextID()
	r.st.s.t.archive = append(r.st.s.t.archive, *entry)
	return nil
}

func (r *archiveRepo) List(ctx context.Context) ([]models.ArchiveEntry, error) {
	r.st.lock()
	defer r.st.unlock()
	return slices.Clone(r.st.s.t.archive), nil
}

func (r *archiveRepo) Count(ctx context.Context) (int, error) {
	r.st.lock()
	defer r.st.unlock()
	return len(r.st.s.t.archive), nil
}
