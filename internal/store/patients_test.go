package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/datesearch/internal/engine"
	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }

func samplePatients() []patient.Patient {
	return []patient.Patient{
		{
			ID:        uuid.MustParse("00000000-0000-7000-8000-000000000001"),
			Family:    "Early",
			BirthDate: time.Date(2022, time.December, 31, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			ID:        uuid.MustParse("00000000-0000-7000-8000-000000000002"),
			Use:       "official",
			Family:    "Newyear",
			FirstName: "Jan",
			Gender:    "male",
			BirthDate: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			Active:    boolPtr(true),
		},
		{
			ID:         uuid.MustParse("00000000-0000-7000-8000-000000000003"),
			Family:     "Spring",
			FirstName:  "April",
			MiddleName: "May",
			Gender:     "female",
			BirthDate:  time.Date(2023, time.April, 15, 8, 30, 0, 0, time.UTC),
			Active:     boolPtr(false),
		},
		{
			ID:        uuid.MustParse("00000000-0000-7000-8000-000000000004"),
			Family:    "Midyear",
			Gender:    "unknown",
			BirthDate: time.Date(2023, time.June, 30, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			ID:        uuid.MustParse("00000000-0000-7000-8000-000000000005"),
			Family:    "Later",
			Gender:    "other",
			BirthDate: time.Date(2024, time.May, 14, 12, 0, 0, 0, time.UTC),
		},
	}
}

func families(ps []patient.Patient) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Family
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInsertAndGetPatient(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	patients := samplePatients()

	require.NoError(t, s.InsertPatients(ctx, patients))

	n, err := s.CountPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(patients), n)

	for _, want := range patients {
		got, err := s.GetPatient(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetPatient(context.Background(), uuid.MustParse("00000000-0000-7000-8000-0000000000ff"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertPatients_AllOrNothing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	batch := samplePatients()
	batch[3].Family = ""

	err := s.InsertPatients(ctx, batch)
	require.Error(t, err)

	var ve *patient.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "family", ve.Field)

	n, err := s.CountPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "no rows written from a failed batch")
}

func TestInsertPatients_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	batch := samplePatients()
	batch[1].ID = batch[0].ID

	require.Error(t, s.InsertPatients(ctx, batch))

	n, err := s.CountPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBirthDateSource_Filter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.InsertPatients(ctx, samplePatients()))
	src := s.Source(discardLogger())

	tests := []struct {
		name string
		pred queryir.Predicate
		want []string
	}{
		{
			name: "nil matches all",
			pred: nil,
			want: []string{"Early", "Newyear", "Spring", "Midyear", "Later"},
		},
		{
			name: "on or after",
			pred: queryir.OnOrAfter{Bound: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
			want: []string{"Newyear", "Spring", "Midyear", "Later"},
		},
		{
			name: "outside",
			pred: queryir.Outside{
				Min: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
				Max: time.Date(2023, time.December, 31, 23, 59, 59, 999_000_000, time.UTC),
			},
			want: []string{"Early", "Later"},
		},
		{
			name: "nothing",
			pred: queryir.Before{Bound: time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Filter(ctx, tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, families(got))
		})
	}
}

func TestBirthDateSource_AgreesWithSliceSource(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	patients := samplePatients()
	require.NoError(t, s.InsertPatients(ctx, patients))

	ev := engine.New(
		engine.WithClock(testutil.NewFixedClock(time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC))),
		engine.WithLogger(discardLogger()),
	)
	sqlSource := s.Source(discardLogger())
	memSource := engine.NewSliceSource(patients, patient.BirthDateOf)

	searches := [][]string{
		{"ge2023", "le2023-06"},
		{"eq2023-04-15T08"},
		{"ne2023"},
		{"sa2023-01-01", "eb2024"},
		{"ap2024-05-14"},
		{"gt2023-06-30T23:59:59.9990"},
		{"eq2022-12-31T23:59"},
	}

	for _, terms := range searches {
		fromSQL, err := engine.Evaluate[patient.Patient](ctx, ev, terms, sqlSource)
		require.NoError(t, err, "terms %v", terms)
		fromMem, err := engine.Evaluate[patient.Patient](ctx, ev, terms, memSource)
		require.NoError(t, err, "terms %v", terms)

		assert.Equal(t, families(fromMem), families(fromSQL), "terms %v", terms)
	}
}
