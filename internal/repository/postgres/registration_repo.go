package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"blitzweek/internal/domain"
)

const registrationColumns = `id, registration_number, name, ldap_id, roll_number, branch, year, interested_events, phone_number, status, registration_date, ip_address, client_signature`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// scanRegistration scans one row in registrationColumns order.
func scanRegistration(row interface{ Scan(...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var phone, ip, sig sql.NullString
	err := row.Scan(
		&reg.ID, &reg.RegistrationNumber, &reg.Name, &reg.LDAPID, &reg.RollNumber,
		&reg.Branch, &reg.Year, pq.Array(&reg.InterestedEvents), &phone,
		&reg.Status, &reg.RegistrationDate, &ip, &sig,
	)
	if err != nil {
		return nil, err
	}
	reg.PhoneNumber = phone.String
	reg.IPAddress = ip.String
	reg.ClientSignature = sig.String
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (registration_number, name, ldap_id, roll_number, branch, year, interested_events, phone_number, status, registration_date, ip_address, client_signature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, NULLIF($11, ''), NULLIF($12, ''))
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.RegistrationNumber, reg.Name, reg.LDAPID, reg.RollNumber,
		reg.Branch, reg.Year, pq.Array(reg.InterestedEvents), reg.PhoneNumber,
		reg.Status, reg.RegistrationDate, reg.IPAddress, reg.ClientSignature,
	).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case constraintLDAPID:
				return domain.ErrDuplicateLDAPID
			case constraintRollNumber:
				return domain.ErrDuplicateRollNumber
			case constraintRegNumber:
				return domain.ErrDuplicateNumber
			}
			return domain.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *registrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) FindByIdentity(ctx context.Context, ldapID, rollNumber string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE ldap_id = $1 OR roll_number = $2
		LIMIT 1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, ldapID, rollNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByLDAPID(ctx context.Context, ldapID string) (*domain.Registration, error) {
	return r.getByField(ctx, "ldap_id", ldapID)
}

func (r *registrationRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Registration, error) {
	return r.getByField(ctx, "roll_number", rollNumber)
}

func (r *registrationRepository) GetByNumber(ctx context.Context, registrationNumber string) (*domain.Registration, error) {
	return r.getByField(ctx, "registration_number", registrationNumber)
}

func (r *registrationRepository) getByField(ctx context.Context, column, value string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE ` + column + ` = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// sortColumns whitelists sortBy values to real column names.
var sortColumns = map[string]string{
	"registrationDate":   "registration_date",
	"registrationNumber": "registration_number",
	"name":               "name",
	"rollNumber":         "roll_number",
	"branch":             "branch",
	"year":               "year",
}

func (r *registrationRepository) List(ctx context.Context, filter domain.ListFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	var conds []string
	var args []any
	if filter.Event != "" {
		args = append(args, filter.Event)
		conds = append(conds, fmt.Sprintf("$%d = ANY(interested_events)", len(args)))
	}
	if filter.Branch != "" {
		args = append(args, filter.Branch)
		conds = append(conds, fmt.Sprintf("branch = $%d", len(args)))
	}
	if filter.Year != "" {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "registration_date"
	}
	order := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		order = "ASC"
	}

	args = append(args, p.Limit, p.Offset())
	query := fmt.Sprintf(
		`SELECT %s FROM registrations%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		registrationColumns, where, sortCol, order, len(args)-1, len(args),
	)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, registrationNumber, status string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1
		WHERE registration_number = $2
		RETURNING ` + registrationColumns + `
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, status, registrationNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, registrationNumber string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE registration_number = $1`, registrationNumber)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) ExportAll(ctx context.Context) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY registration_date ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
