package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLabel(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		4:  "E",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for in, want := range cases {
		assert.Equal(t, want, rowLabel(in), "rowLabel(%d)", in)
	}
	assert.Equal(t, "", rowLabel(-1))
}

func TestCreateGridTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeatRepo(db)

	mock.ExpectBegin()
	// 50 seats over 5 rows: one bulk insert with 50 value groups.
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(1, 50))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	seats, err := repo.CreateGridTx(context.Background(), tx, 7, 50)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Len(t, seats, 50)
	assert.Equal(t, "A1", seats[0].SeatLabel)
	assert.Equal(t, "A10", seats[9].SeatLabel)
	assert.Equal(t, "B1", seats[10].SeatLabel)
	assert.Equal(t, "E10", seats[49].SeatLabel)
	for _, s := range seats {
		assert.Equal(t, uint64(7), s.ShowID)
		assert.Nil(t, s.BookingID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGridTxDropsRemainder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeatRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(1, 50))

	tx, err := db.Begin()
	require.NoError(t, err)

	// 52 does not divide into 5 rows; the grid holds 50.
	seats, err := repo.CreateGridTx(context.Background(), tx, 7, 52)
	require.NoError(t, err)
	assert.Len(t, seats, 50)
}

func TestCreateGridTxTooSmall(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeatRepo(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.CreateGridTx(context.Background(), tx, 7, 4)
	assert.ErrorIs(t, err, ErrGridTooSmall)
}

func TestLockByIDsTxEmptySelection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeatRepo(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	// No IDs means no query at all.
	seats, err := repo.LockByIDsTx(context.Background(), tx, 7, nil)
	require.NoError(t, err)
	assert.Empty(t, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeatRepo(db)

	mock.ExpectQuery("FROM seats").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "free"}).AddRow(50, 47))

	free, total, err := repo.CountByShow(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(47), free)
	assert.Equal(t, uint32(50), total)
}
