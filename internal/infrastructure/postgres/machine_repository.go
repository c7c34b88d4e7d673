package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Maquinaria-api/internal/domain"
	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
	"github.com/jhoicas/Maquinaria-api/internal/domain/repository"
)

var _ repository.MachineRegistry = (*MachineRepo)(nil)

// MachineRepo consulta y registra maquinarias.
type MachineRepo struct {
	q Querier
}

// NewMachineRepository construye el adaptador de maquinarias.
func NewMachineRepository(q Querier) *MachineRepo {
	return &MachineRepo{q: q}
}

// Create persiste una maquinaria.
func (r *MachineRepo) Create(ctx context.Context, m *entity.Machine) error {
	query := `INSERT INTO machines (id, code, name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, m.ID, m.Code, m.Name, m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert machine: %w", err)
	}
	return nil
}

// GetByID obtiene una maquinaria por ID.
func (r *MachineRepo) GetByID(ctx context.Context, id string) (*entity.Machine, error) {
	query := `SELECT id, code, name, created_at FROM machines WHERE id = $1`
	var m entity.Machine
	if err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Code, &m.Name, &m.CreatedAt); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}
	return &m, nil
}
