package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/martijn/clientcrud/internal/core/repository"
)

const clientColumns = `id, name, email, phone, address, city`

type clientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM client ORDER BY id`

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (domain.Optional[*domain.Client], error) {
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM client WHERE id = ?`)
	return r.findOne(ctx, query, id)
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (domain.Optional[*domain.Client], error) {
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM client WHERE email = ?`)
	return r.findOne(ctx, query, email)
}

func (r *clientRepository) findOne(ctx context.Context, query string, arg interface{}) (domain.Optional[*domain.Client], error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.None[*domain.Client](), nil
	}
	if err != nil {
		return domain.None[*domain.Client](), fmt.Errorf("failed to find client: %w", err)
	}
	return domain.Some(&client), nil
}

func (r *clientRepository) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client.IsNew() {
		return r.insert(ctx, client)
	}

	query := r.db.Rebind(`
		UPDATE client
		SET name = ?, email = ?, phone = ?, address = ?, city = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.City,
		client.ID,
	)
	if err != nil {
		return nil, wrapWriteErr("failed to update client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return r.insertWithID(ctx, client)
	}

	return client, nil
}

func (r *clientRepository) insert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	args := []interface{}{client.Name, client.Email, client.Phone, client.Address, client.City}

	if r.db.Driver() == DriverPostgres {
		query := r.db.Rebind(`
			INSERT INTO client (name, email, phone, address, city)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`)
		if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&client.ID); err != nil {
			return nil, wrapWriteErr("failed to create client", err)
		}
		return client, nil
	}

	query := `
		INSERT INTO client (name, email, phone, address, city)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, wrapWriteErr("failed to create client", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get client id: %w", err)
	}
	client.ID = id
	return client, nil
}

// insertWithID handles an update for an id that is not stored yet.
func (r *clientRepository) insertWithID(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	query := r.db.Rebind(`
		INSERT INTO client (id, name, email, phone, address, city)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.City,
	)
	if err != nil {
		return nil, wrapWriteErr("failed to create client", err)
	}

	// Keep the serial ahead of explicitly inserted ids.
	if r.db.Driver() == DriverPostgres {
		_, err := r.db.ExecContext(ctx, `
			SELECT setval(pg_get_serial_sequence('client', 'id'), GREATEST((SELECT MAX(id) FROM client), 1))
		`)
		if err != nil {
			return nil, fmt.Errorf("failed to advance client id sequence: %w", err)
		}
	}

	return client, nil
}

func (r *clientRepository) DeleteByID(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM client WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func wrapWriteErr(msg string, err error) error {
	if isDuplicate(err) {
		return fmt.Errorf("%s: %w: %v", msg, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
