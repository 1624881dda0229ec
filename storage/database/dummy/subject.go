package dummydb

import (
	"context"
	"sort"

	"github.com/tasku/backend/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	sub.ID = repo.db.seq
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]subject.Subject, 0, len(repo.db.table))
	for _, sub := range repo.db.table {
		subs = append(subs, *sub)
	}
	sortByName(subs)
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return subject.ErrNotFound
	}
	delete(repo.db.table, id)
	for assoc := range repo.db.associations {
		if assoc[1] == id {
			delete(repo.db.associations, assoc)
		}
	}
	return nil
}

func (repo *subjectRepository) AssociateUser(ctx context.Context, userID, subjectID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.associations[[2]int{userID, subjectID}] = struct{}{}
	return nil
}

func (repo *subjectRepository) QuerySubjectsByUser(ctx context.Context, userID int) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]subject.Subject, 0)
	for assoc := range repo.db.associations {
		if assoc[0] != userID {
			continue
		}
		if sub, ok := repo.db.table[assoc[1]]; ok {
			subs = append(subs, *sub)
		}
	}
	sortByName(subs)
	return subs, nil
}

func sortByName(subs []subject.Subject) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
}
