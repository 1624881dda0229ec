package subject_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasku/backend/core"
	"github.com/tasku/backend/core/subject"
	dummydb "github.com/tasku/backend/storage/database/dummy"
)

func setup(t *testing.T) *subject.Service {
	db, err := dummydb.Open()
	require.NoError(t, err)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator, &core.Config{})

	return subject.NewService(dummydb.NewSubjectRepository(db), validate)
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	t.Run("ok: defaults applied", func(t *testing.T) {
		sub, err := svc.Create(ctx, subject.NewSubject{Name: "Programming", Code: "TI1031"})
		require.NoError(t, err)
		assert.NotZero(t, sub.ID)
		assert.Equal(t, subject.DefaultColor, sub.Color)
		assert.Equal(t, subject.DefaultIcon, sub.Icon)
	})

	t.Run("ok: explicit color", func(t *testing.T) {
		sub, err := svc.Create(ctx, subject.NewSubject{Name: "Math", Code: "MA1001", Color: "#00FF00"})
		require.NoError(t, err)
		assert.Equal(t, "#00FF00", sub.Color)
	})

	t.Run("bad color", func(t *testing.T) {
		_, err := svc.Create(ctx, subject.NewSubject{Name: "Art", Code: "AR1001", Color: "red-ish"})
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(ctx, subject.NewSubject{Code: "XX0000"})
		assert.Error(t, err)
	})
}

func TestService_GetAll(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for _, name := range []string{"Zoology", "Algebra", "Marketing"} {
		_, err := svc.Create(ctx, subject.NewSubject{Name: name, Code: "C-" + name[:2]})
		require.NoError(t, err)
	}

	subs, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	// ordered by name
	assert.Equal(t, "Algebra", subs[0].Name)
	assert.Equal(t, "Marketing", subs[1].Name)
	assert.Equal(t, "Zoology", subs[2].Name)
}

func TestService_Associate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, subject.NewSubject{Name: "Programming", Code: "TI1031"})
	require.NoError(t, err)

	require.NoError(t, svc.Associate(ctx, 1, sub.ID))

	// associating twice is a no-op, not an error
	require.NoError(t, svc.Associate(ctx, 1, sub.ID))

	subs, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	other, err := svc.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, subject.NewSubject{Name: "Programming", Code: "TI1031"})
	require.NoError(t, err)
	require.NoError(t, svc.Associate(ctx, 1, sub.ID))

	require.NoError(t, svc.Delete(ctx, sub.ID))
	assert.ErrorIs(t, svc.Delete(ctx, sub.ID), subject.ErrNotFound)

	// the association went with it
	subs, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = svc.GetByID(ctx, sub.ID)
	assert.ErrorIs(t, err, subject.ErrNotFound)
}
