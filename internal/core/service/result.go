package service

import "net/http"

// Messages returned to callers as Result bodies.
const (
	MsgNoClients      = "No se encuentran Clientes"
	MsgClientNotFound = "No se encuentra el Cliente: "
	MsgEmailExists    = "Este correo electrónico ya existe en la base de datos: "
	MsgEmailSaved     = "El correo electrónico se guardo exitosamente"
	MsgClientDeleted  = "Se elimino exitosamente el usuario: "
	MsgDeleteMissing  = "No existe el usuario seleccionado"
)

// Result is the outcome of a service call: an HTTP status and the payload to
// send with it. Body is either a string message or client data.
type Result struct {
	Status int
	Body   interface{}
}

func ok(body interface{}) *Result {
	return &Result{Status: http.StatusOK, Body: body}
}

func notFound(message string) *Result {
	return &Result{Status: http.StatusNotFound, Body: message}
}

// IsOK reports whether the call succeeded.
func (r *Result) IsOK() bool {
	return r.Status == http.StatusOK
}

// Message returns the body when it is a text message.
func (r *Result) Message() (string, bool) {
	msg, isText := r.Body.(string)
	return msg, isText
}
