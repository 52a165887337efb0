package request

type PasskeyRegisteredEvent struct {
	EmployeeID uint   `json:"employee_id"`
	PasskeyID  uint   `json:"passkey_id"`
	Label      string `json:"label"`
	TraceID    string `json:"trace_id"`
}

type PasskeyAuthenticatedEvent struct {
	EmployeeID uint   `json:"employee_id"`
	PasskeyID  uint   `json:"passkey_id"`
	TraceID    string `json:"trace_id"`
}

type PasskeyRevokedEvent struct {
	EmployeeID uint   `json:"employee_id"`
	PasskeyID  uint   `json:"passkey_id"`
	Hard       bool   `json:"hard"`
	TraceID    string `json:"trace_id"`
}
