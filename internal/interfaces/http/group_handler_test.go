package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/application/usecase"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
	apihttp "github.com/tu-usuario/contable-pro/internal/interfaces/http"
	"github.com/tu-usuario/contable-pro/pkg/logger"
)

// fakeUserRepo usuarios en memoria para resolver identidad en los tests.
type fakeUserRepo struct {
	users []*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeGroupRepo grupos en memoria con el mismo contrato que el repositorio
// real: nil para ausentes, creación atómica y paginación calculada.
type fakeGroupRepo struct {
	groups map[int64]*entity.EconomicGroup
	roles  map[int64]map[int64]string
	nextID int64
}

var _ repository.GroupRepository = (*fakeGroupRepo)(nil)

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups: map[int64]*entity.EconomicGroup{},
		roles:  map[int64]map[int64]string{},
		nextID: 1,
	}
}

func (f *fakeGroupRepo) seed(g *entity.EconomicGroup, memberships map[int64]string) *entity.EconomicGroup {
	if g.ID == 0 {
		g.ID = f.nextID
	}
	if g.ID >= f.nextID {
		f.nextID = g.ID + 1
	}
	f.groups[g.ID] = g
	f.roles[g.ID] = map[int64]string{}
	for userID, rol := range memberships {
		f.roles[g.ID][userID] = rol
	}
	return g
}

func (f *fakeGroupRepo) FindMany(_ context.Context, filters repository.GroupFilters) (*repository.GroupPage, error) {
	var all []*entity.EconomicGroup
	for _, g := range f.groups {
		if filters.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.Active != nil && g.Active != *filters.Active {
			continue
		}
		if filters.PrimaryCountry != "" && g.PrimaryCountry != filters.PrimaryCountry {
			continue
		}
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	totalPages := 0
	if total > 0 {
		totalPages = (total + filters.Limit - 1) / filters.Limit
	}
	start := (filters.Page - 1) * filters.Limit
	if start > total {
		start = total
	}
	end := start + filters.Limit
	if end > total {
		end = total
	}
	return &repository.GroupPage{
		Groups: all[start:end], Page: filters.Page, Limit: filters.Limit,
		Total: total, TotalPages: totalPages,
	}, nil
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id int64) (*entity.EconomicGroup, error) {
	return f.groups[id], nil
}

func (f *fakeGroupRepo) FindByUserID(_ context.Context, userID int64) ([]*entity.EconomicGroup, error) {
	var out []*entity.EconomicGroup
	for groupID, members := range f.roles {
		if _, ok := members[userID]; ok {
			out = append(out, f.groups[groupID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeGroupRepo) Create(_ context.Context, data repository.CreateGroupData, creatorID int64) (*entity.EconomicGroup, error) {
	id := f.nextID
	f.nextID++
	cfg := entity.DefaultAccountingConfig(id)
	cfg.ID = id
	cfg.CreatedAt = time.Now()
	g := &entity.EconomicGroup{
		ID:              id,
		Name:            data.Name,
		ControllerTaxID: data.ControllerTaxID,
		PrimaryCountry:  data.PrimaryCountry,
		BaseCurrency:    data.BaseCurrency,
		Active:          true,
		CreatedAt:       time.Now(),
		Chart:           &entity.ChartOfAccounts{ID: id, GroupID: id, Name: entity.ChartName(data.Name), Active: true},
		Config:          &cfg,
	}
	f.groups[id] = g
	f.roles[id] = map[int64]string{creatorID: entity.RoleAdmin}
	return g, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, id int64, patch repository.UpdateGroupData) (*entity.EconomicGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, domain.NewNotFound("Grupo económico", id)
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.ControllerTaxID != nil {
		if *patch.ControllerTaxID == "" {
			g.ControllerTaxID = nil
		} else {
			g.ControllerTaxID = patch.ControllerTaxID
		}
	}
	if patch.PrimaryCountry != nil {
		g.PrimaryCountry = *patch.PrimaryCountry
	}
	if patch.BaseCurrency != nil {
		g.BaseCurrency = *patch.BaseCurrency
	}
	if patch.Active != nil {
		g.Active = *patch.Active
	}
	return g, nil
}

func (f *fakeGroupRepo) SoftDelete(_ context.Context, id int64) error {
	g, ok := f.groups[id]
	if !ok {
		return domain.NewNotFound("Grupo económico", id)
	}
	g.Active = false
	return nil
}

func (f *fakeGroupRepo) VerifyUserAccess(_ context.Context, groupID, userID int64) (bool, error) {
	_, ok := f.roles[groupID][userID]
	return ok, nil
}

func (f *fakeGroupRepo) MemberRole(_ context.Context, groupID, userID int64) (string, error) {
	return f.roles[groupID][userID], nil
}

func (f *fakeGroupRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.groups[id]
	return ok, nil
}

// --- armado del app de prueba ---

const (
	adminEmail    = "admin@test.com"
	contadorEmail = "contador@test.com"
	inactivoEmail = "inactivo@test.com"
)

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: []*entity.User{
		{ID: 1, Email: adminEmail, Name: "Admin", Active: true},
		{ID: 2, Email: contadorEmail, Name: "Contador", Active: true},
		{ID: 3, Email: inactivoEmail, Name: "Inactivo", Active: false},
	}}
}

func newTestApp(groups repository.GroupRepository) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	app := fiber.New(fiber.Config{
		ErrorHandler: apihttp.NewErrorHandler(log, "production"),
	})
	apihttp.Router(app, apihttp.RouterDeps{
		GroupUC:  usecase.NewGroupUseCase(groups),
		Resolver: apihttp.NewHeaderIdentityResolver(testUsers()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, email string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("X-Usuario-Email", email)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

type errEnvelope struct {
	Error dto.ErrorBody `json:"error"`
}

type groupEnvelope struct {
	Data    dto.GroupResponse `json:"data"`
	Message string            `json:"message"`
}

func decodeInto(t *testing.T, raw []byte, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst), "cuerpo: %s", raw)
}

// --- tests ---

func TestPOSTGroups_Creacion(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", adminEmail, fiber.Map{
		"nombre":        "Acme Holdings",
		"paisPrincipal": "UY",
		"monedaBase":    "UYU",
	})
	require.Equal(t, 201, status, "cuerpo: %s", raw)

	var out groupEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, "Grupo económico creado exitosamente", out.Message)
	assert.Equal(t, "Acme Holdings", out.Data.Nombre)
	assert.True(t, out.Data.Activo)
	assert.Nil(t, out.Data.RutControlante)
	require.NotNil(t, out.Data.Configuracion)
	assert.Equal(t, 2, out.Data.Configuracion.DecimalesImporte)
	require.NotNil(t, out.Data.PlanCuentas)
	assert.Equal(t, "Plan de Cuentas - Acme Holdings", out.Data.PlanCuentas.Nombre)
}

func TestPOSTGroups_SinIdentidad(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", "", fiber.Map{
		"nombre": "Acme Holdings", "paisPrincipal": "UY", "monedaBase": "UYU",
	})
	require.Equal(t, 401, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeUnauthorized, out.Error.Code)
}

func TestPOSTGroups_UsuarioDesconocido(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", "nadie@test.com", fiber.Map{
		"nombre": "Acme Holdings", "paisPrincipal": "UY", "monedaBase": "UYU",
	})
	require.Equal(t, 401, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeUnauthorized, out.Error.Code)
}

func TestPOSTGroups_UsuarioInactivo(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", inactivoEmail, fiber.Map{
		"nombre": "Acme Holdings", "paisPrincipal": "UY", "monedaBase": "UYU",
	})
	require.Equal(t, 403, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeForbidden, out.Error.Code)
}

func TestPOSTGroups_NombreCorto(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", adminEmail, fiber.Map{
		"nombre": "ab", "paisPrincipal": "UY", "monedaBase": "UYU",
	})
	require.Equal(t, 400, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeValidation, out.Error.Code)
	assert.Contains(t, out.Error.Details, "nombre")
}

func TestPOSTGroups_MonedaInvalidaParaPais(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "POST", "/api/groups", adminEmail, fiber.Map{
		"nombre": "Grupo Euro", "paisPrincipal": "UY", "monedaBase": "EUR",
	})
	require.Equal(t, 422, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeBusinessRule, out.Error.Code)
	assert.Equal(t, domain.RuleMonedaInvalidaPais, out.Error.Rule)
}

func TestPOSTGroups_JSONInvalido(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	req := httptest.NewRequest("POST", "/api/groups", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Usuario-Email", adminEmail)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 400, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Contains(t, out.Error.Details, "body")
}

func TestGETGroups_Paginacion(t *testing.T) {
	repo := newFakeGroupRepo()
	for i := 0; i < 5; i++ {
		repo.seed(&entity.EconomicGroup{
			Name:           "Grupo " + string(rune('A'+i)),
			PrimaryCountry: "UY",
			BaseCurrency:   "UYU",
			Active:         true,
			CreatedAt:      time.Now().Add(time.Duration(i) * time.Minute),
		}, nil)
	}
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "GET", "/api/groups?limit=2", adminEmail, nil)
	require.Equal(t, 200, status)

	var out dto.GroupListResponse
	decodeInto(t, raw, &out)
	assert.Len(t, out.Data, 2)
	assert.Equal(t, 1, out.Pagination.Page)
	assert.Equal(t, 2, out.Pagination.Limit)
	assert.Equal(t, 5, out.Pagination.Total)
	assert.Equal(t, 3, out.Pagination.TotalPages)
}

func TestGETGroups_BusquedaSinResultados(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()}, nil)
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "GET", "/api/groups?search=NoSuchGroupXYZ", adminEmail, nil)
	require.Equal(t, 200, status)

	var out dto.GroupListResponse
	decodeInto(t, raw, &out)
	assert.NotNil(t, out.Data)
	assert.Empty(t, out.Data)
	assert.Equal(t, 0, out.Pagination.Total)
	assert.Equal(t, 0, out.Pagination.TotalPages)
}

func TestGETGroups_QueryInvalida(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "GET", "/api/groups?page=0&limit=500", adminEmail, nil)
	require.Equal(t, 400, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Contains(t, out.Error.Details, "page")
	assert.Contains(t, out.Error.Details, "limit")
}

func TestGETGroupsMine(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Mío", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{1: entity.RoleAdmin})
	repo.seed(&entity.EconomicGroup{Name: "Ajeno", PrimaryCountry: "AR", BaseCurrency: "ARS", Active: true, CreatedAt: time.Now()},
		map[int64]string{2: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "GET", "/api/groups/mine", adminEmail, nil)
	require.Equal(t, 200, status)

	var out dto.GroupsResponse
	decodeInto(t, raw, &out)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Mío", out.Data[0].Nombre)
}

func TestGETGroupByID(t *testing.T) {
	repo := newFakeGroupRepo()
	g := repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{1: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "GET", "/api/groups/1", adminEmail, nil)
	require.Equal(t, 200, status)

	var out groupEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, g.ID, out.Data.ID)
	assert.Equal(t, "Grupo Andino", out.Data.Nombre)
}

func TestGETGroupByID_IDInvalido(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "GET", "/api/groups/abc", adminEmail, nil)
	require.Equal(t, 400, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Contains(t, out.Error.Details, "id")
}

func TestGETGroupByID_NoExiste(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "GET", "/api/groups/999", adminEmail, nil)
	require.Equal(t, 404, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeNotFound, out.Error.Code)
}

func TestGETGroupByID_SinMembresia(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{2: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "GET", "/api/groups/1", adminEmail, nil)
	require.Equal(t, 403, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeForbidden, out.Error.Code)
}

func TestPUTGroup_ParcheParcial(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{1: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "PUT", "/api/groups/1", adminEmail, fiber.Map{
		"nombre": "Grupo Renombrado",
	})
	require.Equal(t, 200, status, "cuerpo: %s", raw)

	var out groupEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, "Grupo Renombrado", out.Data.Nombre)
	assert.Equal(t, "UY", out.Data.PaisPrincipal)
	assert.Equal(t, "UYU", out.Data.MonedaBase)
}

func TestPUTGroup_MiembroSinRolAdmin(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{2: entity.RoleAccountant})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "PUT", "/api/groups/1", contadorEmail, fiber.Map{
		"nombre": "Intento",
	})
	require.Equal(t, 403, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.CodeForbidden, out.Error.Code)
}

func TestDELETEGroup_BloqueadoPorEmpresasActivas(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{
		Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU",
		Active: true, CreatedAt: time.Now(),
		Companies: []entity.Company{{ID: 1, Name: "Activa SA", Active: true}},
	}, map[int64]string{1: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "DELETE", "/api/groups/1", adminEmail, nil)
	require.Equal(t, 422, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, domain.RuleEmpresasActivas, out.Error.Rule)
}

func TestDELETEGroup_BajaLogica(t *testing.T) {
	repo := newFakeGroupRepo()
	repo.seed(&entity.EconomicGroup{Name: "Grupo Andino", PrimaryCountry: "UY", BaseCurrency: "UYU", Active: true, CreatedAt: time.Now()},
		map[int64]string{1: entity.RoleAdmin})
	app := newTestApp(repo)

	status, raw := doJSON(t, app, "DELETE", "/api/groups/1", adminEmail, nil)
	require.Equal(t, 200, status)

	var out dto.DeleteResponse
	decodeInto(t, raw, &out)
	assert.True(t, out.Success)

	// El grupo sigue consultable pero inactivo.
	status, raw = doJSON(t, app, "GET", "/api/groups/1", adminEmail, nil)
	require.Equal(t, 200, status)

	var detail groupEnvelope
	decodeInto(t, raw, &detail)
	assert.False(t, detail.Data.Activo)
}

func TestRutaInexistente(t *testing.T) {
	app := newTestApp(newFakeGroupRepo())

	status, raw := doJSON(t, app, "GET", "/api/no-existe", adminEmail, nil)
	require.Equal(t, 404, status)

	var out errEnvelope
	decodeInto(t, raw, &out)
	assert.Equal(t, "RUTA_NO_ENCONTRADA", out.Error.Code)
}
