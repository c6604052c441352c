package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

type PetRepository struct {
	pool *pgxpool.Pool
}

func NewPetRepository(pool *pgxpool.Pool) *PetRepository {
	return &PetRepository{pool: pool}
}

func (r *PetRepository) FindByID(ctx context.Context, id int) (*entity.Pet, error) {
	query := `SELECT id, user_id, name FROM pets WHERE id=$1`

	pet := &entity.Pet{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&pet.ID, &pet.UserID, &pet.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find pet by id: %w", err)
	}
	return pet, nil
}

func (r *PetRepository) FindOwner(ctx context.Context, petID int) (*entity.Pet, *entity.User, error) {
	query := `
		SELECT p.id, p.user_id, p.name, u.id, u.name, u.email, COALESCE(u.phone, '')
		FROM pets p JOIN users u ON u.id = p.user_id
		WHERE p.id=$1`

	pet := &entity.Pet{}
	user := &entity.User{}
	err := r.pool.QueryRow(ctx, query, petID).Scan(
		&pet.ID, &pet.UserID, &pet.Name,
		&user.ID, &user.Name, &user.Email, &user.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("find pet owner: %w", err)
	}
	return pet, user, nil
}

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) FindActiveByUser(ctx context.Context, userID int) ([]*entity.EmergencyContact, error) {
	query := `
		SELECT id, user_id, contact_type, name, phone,
			COALESCE(email, ''), COALESCE(address, ''), COALESCE(notes, ''),
			priority, is_active, created_at, updated_at
		FROM emergency_contacts
		WHERE user_id=$1 AND is_active=true
		ORDER BY priority`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query emergency contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*entity.EmergencyContact
	for rows.Next() {
		c := &entity.EmergencyContact{}
		err := rows.Scan(
			&c.ID, &c.UserID, &c.ContactType, &c.Name, &c.Phone,
			&c.Email, &c.Address, &c.Notes,
			&c.Priority, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan emergency contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
