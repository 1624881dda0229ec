package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/subject"
)

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	const q = `
	INSERT INTO subjects (name, code, color, icon)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

	err := repo.db.QueryRowContext(ctx, q, sub.Name, sub.Code, sub.Color, sub.Icon).Scan(&sub.ID)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	subs := make([]subject.Subject, 0)
	if err := repo.db.SelectContext(ctx, &subs, `SELECT id, name, code, color, icon FROM subjects ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "selecting subjects")
	}
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	var sub subject.Subject
	if err := repo.db.GetContext(ctx, &sub, `SELECT id, name, code, color, icon FROM subjects WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "selecting subject by id")
	}
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return oneRowOr(res, subject.ErrNotFound)
}

func (repo *subjectRepository) AssociateUser(ctx context.Context, userID, subjectID int) error {
	const q = `
	INSERT INTO user_subject (user_id, subject_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

	if _, err := repo.db.ExecContext(ctx, q, userID, subjectID); err != nil {
		return errors.Wrap(err, "associating subject")
	}
	return nil
}

func (repo *subjectRepository) QuerySubjectsByUser(ctx context.Context, userID int) ([]subject.Subject, error) {
	const q = `
	SELECT s.id, s.name, s.code, s.color, s.icon
	FROM subjects s
	INNER JOIN user_subject us ON us.subject_id = s.id
	WHERE us.user_id = $1
	ORDER BY s.name`

	subs := make([]subject.Subject, 0)
	if err := repo.db.SelectContext(ctx, &subs, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting subjects by user")
	}
	return subs, nil
}
