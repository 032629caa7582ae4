package session

import "github.com/MrJamesThe3rd/cajero/internal/record"

// Credentials are what the cashier types on the login screen.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the authenticated account as returned by the login endpoint.
type User struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Nombre   string     `json:"nombre,omitempty"`
	Apellido string     `json:"apellido,omitempty"`
	Email    string     `json:"email,omitempty"`
	Rol      string     `json:"rol,omitempty"`
	Empresa  record.Ref `json:"empresa"`
	Token    string     `json:"token,omitempty"`
}

func (u *User) Valid() bool {
	return u.ID != "" && !u.Empresa.IsZero()
}

// DisplayName is "Nombre Apellido" when known, the username otherwise.
func (u *User) DisplayName() string {
	switch {
	case u.Nombre != "" && u.Apellido != "":
		return u.Nombre + " " + u.Apellido
	case u.Nombre != "":
		return u.Nombre
	}

	return u.Username
}

// Company is the business the user belongs to.
type Company struct {
	ID            string `json:"id"`
	NombreEmpresa string `json:"nombreEmpresa"`
	CUIT          string `json:"cuit,omitempty"`
	CondicionIVA  string `json:"condicionIVA,omitempty"`
	Direccion     string `json:"direccion,omitempty"`
	Telefono      string `json:"telefono,omitempty"`
	Email         string `json:"email,omitempty"`
}

func (c *Company) Valid() bool {
	return c.ID != ""
}

// Session is an authenticated user together with their company.
type Session struct {
	User    User
	Company Company
}

func (s Session) CompanyID() string {
	return s.Company.ID
}

func (s Session) UserID() string {
	return s.User.ID
}
