package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// Asegura que GroupRepo implementa repository.GroupRepository.
var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implementación del puerto GroupRepository sobre PostgreSQL.
type GroupRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewGroupRepository construye el adaptador de persistencia para grupos.
func NewGroupRepository(pool *pgxpool.Pool, tx *TxRunner) *GroupRepo {
	return &GroupRepo{pool: pool, tx: tx}
}

const groupColumns = `g.id, g.nombre, g.rut_controlante, g.pais_principal, g.moneda_base, g.activo, g.fecha_creacion`

// buildGroupFilters arma el WHERE dinámico del listado y sus argumentos.
func buildGroupFilters(f repository.GroupFilters) (string, []any) {
	var conds []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(g.nombre ILIKE $%d OR g.rut_controlante ILIKE $%d)", n, n))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conds = append(conds, fmt.Sprintf("g.activo = $%d", len(args)))
	}
	if f.PrimaryCountry != "" {
		args = append(args, f.PrimaryCountry)
		conds = append(conds, fmt.Sprintf("g.pais_principal = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindMany lista grupos con filtros dinámicos y paginación. El COUNT y la
// página se consultan en paralelo: son lecturas sin dependencia entre sí.
func (r *GroupRepo) FindMany(ctx context.Context, f repository.GroupFilters) (*repository.GroupPage, error) {
	where, args := buildGroupFilters(f)

	type countResult struct {
		total int
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		var total int
		err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM grupos_economicos g`+where, args...).Scan(&total)
		countCh <- countResult{total, err}
	}()

	pageArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `
		SELECT ` + groupColumns + `,
		       (SELECT COUNT(*) FROM empresas e WHERE e.grupo_id = g.id) AS cantidad_empresas
		FROM grupos_economicos g` + where + fmt.Sprintf(`
		ORDER BY g.fecha_creacion DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, pageArgs...)
	if err != nil {
		<-countCh
		return nil, translateError(fmt.Errorf("list grupos: %w", err))
	}
	defer rows.Close()

	var groups []*entity.EconomicGroup
	for rows.Next() {
		var g entity.EconomicGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.ControllerTaxID, &g.PrimaryCountry,
			&g.BaseCurrency, &g.Active, &g.CreatedAt, &g.CompanyCount); err != nil {
			<-countCh
			return nil, translateError(fmt.Errorf("scan grupo: %w", err))
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		<-countCh
		return nil, translateError(err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, translateError(fmt.Errorf("count grupos: %w", count.err))
	}

	totalPages := 0
	if count.total > 0 {
		totalPages = (count.total + f.Limit - 1) / f.Limit
	}
	return &repository.GroupPage{
		Groups:     groups,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      count.total,
		TotalPages: totalPages,
	}, nil
}

// FindByID obtiene el grupo con sus empresas (proyección mínima), plan de
// cuentas y configuración completa. Devuelve nil si no existe: el
// repositorio nunca produce NOT_FOUND por sí mismo.
func (r *GroupRepo) FindByID(ctx context.Context, id int64) (*entity.EconomicGroup, error) {
	var g entity.EconomicGroup
	err := r.pool.QueryRow(ctx, `
		SELECT `+groupColumns+` FROM grupos_economicos g WHERE g.id = $1`, id).Scan(
		&g.ID, &g.Name, &g.ControllerTaxID, &g.PrimaryCountry, &g.BaseCurrency, &g.Active, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(fmt.Errorf("get grupo: %w", err))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, grupo_id, nombre, pais, moneda, activo
		FROM empresas WHERE grupo_id = $1 ORDER BY nombre ASC`, id)
	if err != nil {
		return nil, translateError(fmt.Errorf("empresas del grupo: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var e entity.Company
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Name, &e.Country, &e.Currency, &e.Active); err != nil {
			return nil, translateError(fmt.Errorf("scan empresa: %w", err))
		}
		g.Companies = append(g.Companies, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	g.CompanyCount = len(g.Companies)

	var chart entity.ChartOfAccounts
	err = r.pool.QueryRow(ctx, `
		SELECT id, grupo_id, nombre, activo FROM planes_cuentas WHERE grupo_id = $1`, id).Scan(
		&chart.ID, &chart.GroupID, &chart.Name, &chart.Active,
	)
	if err == nil {
		g.Chart = &chart
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(fmt.Errorf("plan de cuentas del grupo: %w", err))
	}

	var cfg entity.AccountingConfig
	err = r.pool.QueryRow(ctx, `
		SELECT id, grupo_id, decimales_importe, decimales_tipo_cambio,
		       permitir_periodo_cerrado, requiere_aprobacion_global,
		       permitir_desbalanceados, monto_minimo_aprobacion, fecha_creacion
		FROM configuraciones_contables WHERE grupo_id = $1`, id).Scan(
		&cfg.ID, &cfg.GroupID, &cfg.AmountDecimals, &cfg.ExchangeRateDecimals,
		&cfg.AllowClosedPeriod, &cfg.RequireGlobalApproval,
		&cfg.AllowUnbalanced, &cfg.MinApprovalAmount, &cfg.CreatedAt,
	)
	if err == nil {
		g.Config = &cfg
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(fmt.Errorf("configuración del grupo: %w", err))
	}

	return &g, nil
}

// FindByUserID lista los grupos donde el usuario tiene membresía, con
// proyección mínima, ordenados por nombre.
func (r *GroupRepo) FindByUserID(ctx context.Context, userID int64) ([]*entity.EconomicGroup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.nombre, g.pais_principal, g.moneda_base, g.activo, g.fecha_creacion
		FROM grupos_economicos g
		JOIN usuarios_grupos ug ON ug.grupo_id = g.id
		WHERE ug.usuario_id = $1
		ORDER BY g.nombre ASC`, userID)
	if err != nil {
		return nil, translateError(fmt.Errorf("grupos del usuario: %w", err))
	}
	defer rows.Close()

	var groups []*entity.EconomicGroup
	for rows.Next() {
		var g entity.EconomicGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.PrimaryCountry, &g.BaseCurrency, &g.Active, &g.CreatedAt); err != nil {
			return nil, translateError(fmt.Errorf("scan grupo: %w", err))
		}
		groups = append(groups, &g)
	}
	return groups, translateError(rows.Err())
}

// Create inserta el grupo, la membresía ADMIN del creador, la configuración
// contable por defecto y el plan de cuentas en una única transacción:
// o se aplican las cuatro escrituras o ninguna.
func (r *GroupRepo) Create(ctx context.Context, data repository.CreateGroupData, creatorID int64) (*entity.EconomicGroup, error) {
	if data.ControllerTaxID != nil && *data.ControllerTaxID == "" {
		data.ControllerTaxID = nil
	}

	var id int64
	err := r.tx.Run(ctx, func(q Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO grupos_economicos (nombre, rut_controlante, pais_principal, moneda_base, activo)
			VALUES ($1, $2, $3, $4, true)
			RETURNING id`,
			data.Name, data.ControllerTaxID, data.PrimaryCountry, data.BaseCurrency,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert grupo: %w", err)
		}

		if _, err := q.Exec(ctx, `
			INSERT INTO usuarios_grupos (usuario_id, grupo_id, rol)
			VALUES ($1, $2, $3)`,
			creatorID, id, entity.RoleAdmin,
		); err != nil {
			return fmt.Errorf("insert membresía: %w", err)
		}

		cfg := entity.DefaultAccountingConfig(id)
		if _, err := q.Exec(ctx, `
			INSERT INTO configuraciones_contables
				(grupo_id, decimales_importe, decimales_tipo_cambio,
				 permitir_periodo_cerrado, requiere_aprobacion_global,
				 permitir_desbalanceados, monto_minimo_aprobacion)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, cfg.AmountDecimals, cfg.ExchangeRateDecimals,
			cfg.AllowClosedPeriod, cfg.RequireGlobalApproval,
			cfg.AllowUnbalanced, cfg.MinApprovalAmount,
		); err != nil {
			return fmt.Errorf("insert configuración: %w", err)
		}

		if _, err := q.Exec(ctx, `
			INSERT INTO planes_cuentas (grupo_id, nombre, activo)
			VALUES ($1, $2, true)`,
			id, entity.ChartName(data.Name),
		); err != nil {
			return fmt.Errorf("insert plan de cuentas: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return r.FindByID(ctx, id)
}

// Update aplica un parche parcial: solo los campos presentes modifican la
// fila. Un RUT vacío se persiste como NULL.
func (r *GroupRepo) Update(ctx context.Context, id int64, patch repository.UpdateGroupData) (*entity.EconomicGroup, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("nombre", *patch.Name)
	}
	if patch.ControllerTaxID != nil {
		if *patch.ControllerTaxID == "" {
			add("rut_controlante", nil)
		} else {
			add("rut_controlante", *patch.ControllerTaxID)
		}
	}
	if patch.PrimaryCountry != nil {
		add("pais_principal", *patch.PrimaryCountry)
	}
	if patch.BaseCurrency != nil {
		add("moneda_base", *patch.BaseCurrency)
	}
	if patch.Active != nil {
		add("activo", *patch.Active)
	}

	if len(sets) > 0 {
		cmd, err := r.pool.Exec(ctx,
			fmt.Sprintf("UPDATE grupos_economicos SET %s WHERE id = $1", strings.Join(sets, ", ")),
			args...,
		)
		if err != nil {
			return nil, translateError(fmt.Errorf("update grupo: %w", err))
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.NewNotFound("Grupo económico", id)
		}
	}
	return r.FindByID(ctx, id)
}

// SoftDelete marca el grupo como inactivo; ningún otro campo cambia.
func (r *GroupRepo) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE grupos_economicos SET activo = false WHERE id = $1`, id)
	if err != nil {
		return translateError(fmt.Errorf("soft delete grupo: %w", err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("Grupo económico", id)
	}
	return nil
}

// VerifyUserAccess informa si existe la membresía exacta usuario-grupo.
func (r *GroupRepo) VerifyUserAccess(ctx context.Context, groupID, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM usuarios_grupos WHERE grupo_id = $1 AND usuario_id = $2
		)`, groupID, userID).Scan(&ok)
	if err != nil {
		return false, translateError(fmt.Errorf("verificar acceso: %w", err))
	}
	return ok, nil
}

// MemberRole devuelve el rol del usuario en el grupo, o "" si no es miembro.
func (r *GroupRepo) MemberRole(ctx context.Context, groupID, userID int64) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT rol FROM usuarios_grupos WHERE grupo_id = $1 AND usuario_id = $2`,
		groupID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", translateError(fmt.Errorf("rol del miembro: %w", err))
	}
	return role, nil
}

// Exists verifica existencia por clave primaria.
func (r *GroupRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM grupos_economicos WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, translateError(fmt.Errorf("existe grupo: %w", err))
	}
	return ok, nil
}
