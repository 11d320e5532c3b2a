// Package tui implementa la terminal de Black Silver sobre bubbletea
// (arquitectura Elm: Model → Update → View). Cada operación de red tiene su
// propio tipo de mensaje; las vistas nunca llaman a la red directamente, solo
// despachan tea.Cmd y reaccionan al mensaje resultante.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/break-dev/BlackSilver-sub000/internal/api"
	"github.com/break-dev/BlackSilver-sub000/internal/atencion"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/store"
)

// Cliente agrupa las operaciones del backend que consume la terminal.
// api.Client lo satisface; los tests inyectan un doble que cuenta llamadas.
type Cliente interface {
	atencion.Backend
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ObtenerMenu(ctx context.Context) ([]dto.MenuItem, error)
	ObtenerPendientes(ctx context.Context, idAlmacen string) ([]dto.PendienteResponse, error)
	ListarRequerimientos(ctx context.Context, idMina string) ([]dto.RequerimientoResponse, error)
}

// appState indica qué pantalla está activa.
type appState int

const (
	stateLogin appState = iota
	stateMenu
	stateAtencion
	stateRequerimientos
)

// ── Mensajes ──────────────────────────────────────────────────────────────────

type loginResultMsg struct {
	resp *dto.LoginResponse
	err  error
}

type menuCargadoMsg struct {
	items []dto.MenuItem
	err   error
}

// sesionExpiradaMsg fuerza el regreso al login descartando el contexto en
// vuelo. La emite cualquier vista al recibir api.ErrSesionExpirada.
type sesionExpiradaMsg struct{}

// menuItem implementa list.Item para el menú principal.
type menuItem struct {
	titulo string
	desc   string
	ruta   string
}

func (i menuItem) Title() string       { return i.titulo }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.titulo }

// App es el modelo raíz. Mantiene la sesión, el menú y la vista activa.
type App struct {
	state   appState
	cliente Cliente
	sesion  *store.SesionStore
	menu    *store.MenuStore
	orq     *atencion.Orquestador
	logger  zerolog.Logger

	// Pantalla de login
	usuarioInput textinput.Model
	claveInput   textinput.Model
	focoClave    bool
	autenticando bool

	// Menú principal
	mainMenu list.Model

	// Vistas
	atencionView *vistaAtencion
	reqsView     *vistaRequerimientos

	statusMsg string
	errMsg    string
	width     int
	height    int
}

// NewApp arma el modelo raíz. Si hay una sesión persistida y vigente salta
// directo al menú; el menú cacheado se muestra de inmediato y se refresca en
// segundo plano.
func NewApp(cliente Cliente, sesion *store.SesionStore, menu *store.MenuStore, logger zerolog.Logger) *App {
	usuario := textinput.New()
	usuario.Placeholder = "usuario"
	usuario.CharLimit = 64
	usuario.Focus()

	clave := textinput.New()
	clave.Placeholder = "contraseña"
	clave.CharLimit = 64
	clave.EchoMode = textinput.EchoPassword
	clave.EchoCharacter = '•'

	mainMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "BLACK SILVER"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:        stateLogin,
		cliente:      cliente,
		sesion:       sesion,
		menu:         menu,
		orq:          atencion.NuevoOrquestador(cliente),
		logger:       logger,
		usuarioInput: usuario,
		claveInput:   clave,
		mainMenu:     mainMenu,
	}

	if _, ok := sesion.Snapshot(); ok && !sesion.Expirada(time.Now()) {
		app.state = stateMenu
		app.reconstruirMenu(menu.Snapshot())
	}
	return app
}

func (a *App) Init() tea.Cmd {
	if a.state == stateMenu {
		return a.cargarMenu()
	}
	return textinput.Blink
}

// ── Comandos ──────────────────────────────────────────────────────────────────

func (a *App) enviarLogin() tea.Cmd {
	req := dto.LoginRequest{
		Username: strings.TrimSpace(a.usuarioInput.Value()),
		Password: a.claveInput.Value(),
	}
	return func() tea.Msg {
		resp, err := a.cliente.Login(context.Background(), req)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (a *App) cargarMenu() tea.Cmd {
	return func() tea.Msg {
		items, err := a.cliente.ObtenerMenu(context.Background())
		return menuCargadoMsg{items: items, err: err}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-8))
		return a, nil

	case loginResultMsg:
		a.autenticando = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			a.logger.Warn().Err(msg.err).Msg("login rechazado")
			return a, nil
		}
		a.errMsg = ""
		if err := a.sesion.IniciarSesion(msg.resp.AccessToken, msg.resp.User); err != nil {
			a.logger.Warn().Err(err).Msg("no se pudo persistir la sesion")
		}
		a.logger.Info().Str("usuario", msg.resp.User.Username).Msg("sesion iniciada")
		a.claveInput.SetValue("")
		a.state = stateMenu
		a.statusMsg = "Bienvenido, " + msg.resp.User.Nombre
		return a, a.cargarMenu()

	case menuCargadoMsg:
		if msg.err != nil {
			if errEsSesionExpirada(msg.err) {
				return a.cerrarSesion("La sesion expiro, vuelva a ingresar")
			}
			// Con menú cacheado el error de refresco no es fatal.
			if len(a.menu.Snapshot()) == 0 {
				a.errMsg = msg.err.Error()
			}
			return a, nil
		}
		if err := a.menu.Actualizar(msg.items); err != nil {
			a.logger.Warn().Err(err).Msg("no se pudo cachear el menu")
		}
		a.reconstruirMenu(msg.items)
		return a, nil

	case sesionExpiradaMsg:
		return a.cerrarSesion("La sesion expiro, vuelva a ingresar")

	case tea.KeyMsg:
		if modelo, cmd, manejado := a.manejarTecla(msg); manejado {
			return modelo, cmd
		}
	}

	return a.delegar(msg)
}

// manejarTecla procesa atajos globales y de la pantalla activa. Devuelve
// manejado=false cuando la tecla debe fluir hacia la vista activa.
func (a *App) manejarTecla(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit, true
	}

	switch a.state {
	case stateLogin:
		switch key {
		case "tab", "shift+tab":
			a.alternarFocoLogin()
			return a, nil, true
		case "enter":
			// El envío queda deshabilitado mientras hay un login en vuelo.
			if a.autenticando {
				return a, nil, true
			}
			if strings.TrimSpace(a.usuarioInput.Value()) == "" || a.claveInput.Value() == "" {
				a.errMsg = "Ingrese usuario y contraseña"
				return a, nil, true
			}
			a.autenticando = true
			a.errMsg = ""
			return a, a.enviarLogin(), true
		}

	case stateMenu:
		switch key {
		case "q":
			return a, tea.Quit, true
		case "ctrl+l":
			return a.cerrarSesionYSalirAlLogin()
		case "enter":
			return a.abrirSeleccionMenu()
		}

	case stateAtencion, stateRequerimientos:
		if key == "esc" && a.vistaActivaEnRaiz() {
			a.volverAlMenu()
			return a, nil, true
		}
	}

	return a, nil, false
}

func (a *App) alternarFocoLogin() {
	a.focoClave = !a.focoClave
	if a.focoClave {
		a.usuarioInput.Blur()
		a.claveInput.Focus()
	} else {
		a.claveInput.Blur()
		a.usuarioInput.Focus()
	}
}

// vistaActivaEnRaiz reporta si la vista activa está en su pantalla raíz, en
// cuyo caso esc regresa al menú (cualquier submodo lo maneja la vista).
func (a *App) vistaActivaEnRaiz() bool {
	switch a.state {
	case stateAtencion:
		return a.atencionView == nil || a.atencionView.enRaiz()
	case stateRequerimientos:
		return a.reqsView == nil || a.reqsView.enRaiz()
	}
	return true
}

func (a *App) abrirSeleccionMenu() (tea.Model, tea.Cmd, bool) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil, true
	}
	switch item.ruta {
	case "/atencion/pendientes":
		sesion, _ := a.sesion.Snapshot()
		idAlmacen := ""
		if sesion.Usuario.AlmacenID != nil {
			idAlmacen = *sesion.Usuario.AlmacenID
		}
		if idAlmacen == "" {
			a.statusMsg = "Su usuario no tiene un almacen asignado"
			return a, nil, true
		}
		a.atencionView = nuevaVistaAtencion(a, idAlmacen)
		a.state = stateAtencion
		return a, a.atencionView.init(), true
	case "/requerimientos/lista":
		sesion, _ := a.sesion.Snapshot()
		idMina := ""
		if sesion.Usuario.MinaID != nil {
			idMina = *sesion.Usuario.MinaID
		}
		if idMina == "" {
			a.statusMsg = "Su usuario no tiene una mina asignada"
			return a, nil, true
		}
		a.reqsView = nuevaVistaRequerimientos(a, idMina)
		a.state = stateRequerimientos
		return a, a.reqsView.init(), true
	case "/requerimientos/crear":
		a.statusMsg = "El registro de requerimientos se hace desde el portal de mina"
		return a, nil, true
	case "salir":
		return a, tea.Quit, true
	}
	a.statusMsg = fmt.Sprintf("Ruta %s no disponible en la terminal", item.ruta)
	return a, nil, true
}

func (a *App) volverAlMenu() {
	a.state = stateMenu
	a.atencionView = nil
	a.reqsView = nil
	a.statusMsg = ""
	a.errMsg = ""
}

func (a *App) cerrarSesion(motivo string) (tea.Model, tea.Cmd) {
	if err := a.sesion.CerrarSesion(); err != nil {
		a.logger.Warn().Err(err).Msg("no se pudo limpiar la sesion")
	}
	a.menu.Limpiar()
	a.volverAlMenu()
	a.state = stateLogin
	a.errMsg = motivo
	a.focoClave = false
	a.claveInput.Blur()
	a.claveInput.SetValue("")
	a.usuarioInput.Focus()
	return a, textinput.Blink
}

func (a *App) cerrarSesionYSalirAlLogin() (tea.Model, tea.Cmd, bool) {
	modelo, cmd := a.cerrarSesion("")
	a.statusMsg = "Sesion cerrada"
	return modelo, cmd, true
}

// delegar pasa el mensaje a la vista o componente activo.
func (a *App) delegar(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch a.state {
	case stateLogin:
		var cmd tea.Cmd
		if a.focoClave {
			a.claveInput, cmd = a.claveInput.Update(msg)
		} else {
			a.usuarioInput, cmd = a.usuarioInput.Update(msg)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case stateMenu:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case stateAtencion:
		if a.atencionView != nil {
			if cmd := a.atencionView.update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateRequerimientos:
		if a.reqsView != nil {
			if cmd := a.reqsView.update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

// reconstruirMenu aplana el árbol del servidor en entradas navegables. El
// cliente no conoce las rutas por adelantado: renderiza lo que llegue.
func (a *App) reconstruirMenu(arbol []dto.MenuItem) {
	var items []list.Item
	var recorrer func(nodos []dto.MenuItem, prefijo string)
	recorrer = func(nodos []dto.MenuItem, prefijo string) {
		for _, n := range nodos {
			titulo := n.Titulo
			if prefijo != "" {
				titulo = prefijo + " · " + n.Titulo
			}
			if len(n.Hijos) == 0 {
				items = append(items, menuItem{titulo: titulo, desc: n.Ruta, ruta: n.Ruta})
				continue
			}
			recorrer(n.Hijos, titulo)
		}
	}
	recorrer(arbol, "")
	items = append(items, menuItem{titulo: "Salir", desc: "Cerrar la terminal", ruta: "salir"})
	a.mainMenu.SetItems(items)
}

// ── View ──────────────────────────────────────────────────────────────────────

func (a *App) View() string {
	var cuerpo string
	switch a.state {
	case stateLogin:
		cuerpo = a.renderLogin()
	case stateMenu:
		cuerpo = a.mainMenu.View()
	case stateAtencion:
		if a.atencionView != nil {
			cuerpo = a.atencionView.view()
		}
	case stateRequerimientos:
		if a.reqsView != nil {
			cuerpo = a.reqsView.view()
		}
	}

	pie := ""
	if a.errMsg != "" {
		pie = estiloError.Render(a.errMsg)
	} else if a.statusMsg != "" {
		pie = estiloStatus.Render(a.statusMsg)
	}
	if pie != "" {
		return cuerpo + "\n\n" + pie
	}
	return cuerpo
}

func (a *App) renderLogin() string {
	titulo := estiloTitulo.Render("BLACK SILVER · Logistica de Mina")
	lineas := []string{
		titulo,
		"",
		"  Usuario:    " + a.usuarioInput.View(),
		"  Contraseña: " + a.claveInput.View(),
		"",
	}
	if a.autenticando {
		lineas = append(lineas, estiloStatus.Render("  Verificando credenciales…"))
	} else {
		lineas = append(lineas, estiloAyuda.Render("  tab=cambiar campo  enter=ingresar  ctrl+c=salir"))
	}
	return strings.Join(lineas, "\n")
}

func errEsSesionExpirada(err error) bool {
	return errors.Is(err, api.ErrSesionExpirada)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
