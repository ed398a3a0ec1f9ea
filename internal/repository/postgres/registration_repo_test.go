package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"blitzweek/internal/domain"
)

var registrationRowColumns = []string{
	"id", "registration_number", "name", "ldap_id", "roll_number", "branch", "year",
	"interested_events", "phone_number", "status", "registration_date", "ip_address", "client_signature",
}

func registrationRow() *sqlmock.Rows {
	return sqlmock.NewRows(registrationRowColumns).AddRow(
		"reg-uuid-1", "BW20260001", "Alice", "alice@iitb.ac.in", "21B1234",
		"Computer Science and Engineering", "3rd Year", `{"ScaleUp Blitz"}`, "9876543210",
		domain.StatusConfirmed, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), "10.0.0.1", "Firefox 130 on Linux",
	)
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()

	reg := func() *domain.Registration {
		return &domain.Registration{
			RegistrationNumber: "BW20260001",
			Name:               "Alice",
			LDAPID:             "alice@iitb.ac.in",
			RollNumber:         "21B1234",
			Branch:             "Computer Science and Engineering",
			Year:               "3rd Year",
			InterestedEvents:   []string{domain.EventBlitz},
			PhoneNumber:        "9876543210",
			Status:             domain.StatusConfirmed,
			RegistrationDate:   time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-uuid-1"))
			},
		},
		{
			name: "ldap unique index violated",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: constraintLDAPID})
			},
			wantErr: domain.ErrDuplicateLDAPID,
		},
		{
			name: "roll number unique index violated",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: constraintRollNumber})
			},
			wantErr: domain.ErrDuplicateRollNumber,
		},
		{
			name: "registration number collision",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: constraintRegNumber})
			},
			wantErr: domain.ErrDuplicateNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			r := reg()
			err = repo.Create(ctx, r)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "reg-uuid-1", r.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByNumber(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		number  string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "success",
			number: "BW20260001",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, registration_number`).
					WithArgs("BW20260001").
					WillReturnRows(registrationRow())
			},
		},
		{
			name:   "not found",
			number: "BW20269999",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, registration_number`).
					WithArgs("BW20269999").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg, err := repo.GetByNumber(ctx, tt.number)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "BW20260001", reg.RegistrationNumber)
			require.Equal(t, []string{domain.EventBlitz}, reg.InterestedEvents)
			require.Equal(t, "9876543210", reg.PhoneNumber)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_FindByIdentity(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE ldap_id = \$1 OR roll_number = \$2`).
		WithArgs("alice@iitb.ac.in", "21B1234").
		WillReturnRows(registrationRow())

	repo := NewRegistrationRepository(db)
	reg, err := repo.FindByIdentity(ctx, "alice@iitb.ac.in", "21B1234")
	require.NoError(t, err)
	require.Equal(t, "alice@iitb.ac.in", reg.LDAPID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE \$1 = ANY\(interested_events\) AND branch = \$2`).
		WithArgs(domain.EventBlitz, "Computer Science and Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY name ASC LIMIT \$3 OFFSET \$4`).
		WithArgs(domain.EventBlitz, "Computer Science and Engineering", 20, 0).
		WillReturnRows(registrationRow())

	repo := NewRegistrationRepository(db)
	regs, total, err := repo.List(ctx,
		domain.ListFilter{Event: domain.EventBlitz, Branch: "Computer Science and Engineering", SortBy: "name", Order: "asc"},
		domain.PaginationParams{Page: 1, Limit: 20},
	)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, regs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_List_UnknownSortFallsBackToDate(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY registration_date DESC`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(registrationRowColumns))

	repo := NewRegistrationRepository(db)
	regs, total, err := repo.List(ctx,
		domain.ListFilter{SortBy: "created_at; DROP TABLE registrations"},
		domain.PaginationParams{Page: 1, Limit: 20},
	)
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.Empty(t, regs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE registrations`).
					WithArgs(domain.StatusCancelled, "BW20260001").
					WillReturnRows(registrationRow())
			},
		},
		{
			name: "unknown number",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE registrations`).
					WithArgs(domain.StatusCancelled, "BW20260001").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg, err := repo.UpdateStatus(ctx, "BW20260001", domain.StatusCancelled)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, reg)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM registrations WHERE registration_number = \$1`).
					WithArgs("BW20260001").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unknown number",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM registrations WHERE registration_number = \$1`).
					WithArgs("BW20260001").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Delete(ctx, "BW20260001")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
