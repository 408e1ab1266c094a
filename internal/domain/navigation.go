package domain

// View is a storefront page
type View string

const (
	ViewHome     View = "home"
	ViewProducts View = "products"
	ViewShopAll  View = "shopall"
	ViewContact  View = "contact"
	ViewLogin    View = "login"
	ViewAdmin    View = "admin"
)

// ViewState is the client-visible application state
type ViewState struct {
	Page      View `json:"page"`
	MenuOpen  bool `json:"menuOpen"`
	LoggedIn  bool `json:"loggedIn"`
	IsAdmin   bool `json:"isAdmin"`
	ShowLogin bool `json:"showLogin"`
}

// ActionKind enumerates state transitions
type ActionKind string

const (
	ActionNavigate   ActionKind = "navigate"
	ActionToggleMenu ActionKind = "toggle_menu"
	ActionShowLogin  ActionKind = "show_login"
	ActionLogin      ActionKind = "login"
	ActionLogout     ActionKind = "logout"
)

// Action is one user intent applied to a ViewState
type Action struct {
	Kind  ActionKind `json:"kind"`
	Page  View       `json:"page,omitempty"`
	Admin bool       `json:"admin,omitempty"`
}

// InitialViewState is the state of a fresh visitor
func InitialViewState() ViewState {
	return ViewState{Page: ViewHome}
}

// Navigate returns the state after applying action. It never mutates its input.
// Non-admins asking for the admin page land on home; unknown pages land on home.
func Navigate(state ViewState, action Action) ViewState {
	next := state

	switch action.Kind {
	case ActionNavigate:
		next.Page = resolvePage(action.Page, state.IsAdmin)
		next.MenuOpen = false
	case ActionToggleMenu:
		next.MenuOpen = !state.MenuOpen
	case ActionShowLogin:
		next.ShowLogin = true
		next.Page = ViewLogin
		next.MenuOpen = false
	case ActionLogin:
		next.LoggedIn = true
		next.IsAdmin = action.Admin
		next.ShowLogin = false
		next.MenuOpen = false
		if action.Admin {
			next.Page = ViewAdmin
		} else {
			next.Page = ViewHome
		}
	case ActionLogout:
		next = InitialViewState()
	}

	return next
}

func resolvePage(page View, isAdmin bool) View {
	switch page {
	case ViewHome, ViewProducts, ViewShopAll, ViewContact, ViewLogin:
		return page
	case ViewAdmin:
		if isAdmin {
			return ViewAdmin
		}
	}
	return ViewHome
}
