package dto

// AuthResponse é o corpo de /auth/login e /auth/register
// Token vazio num 2xx significa autenticação recusada
type AuthResponse struct {
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

type IssuesResponse struct {
	Success bool    `json:"success"`
	Issues  []Issue `json:"issues"`
	Message string  `json:"message,omitempty"`
}

type IssueResponse struct {
	Success bool   `json:"success"`
	Issue   *Issue `json:"issue,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorBody é o corpo estruturado das respostas de erro do backend
type ErrorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Text devolve a mensagem a exibir; message tem precedência sobre error
func (e ErrorBody) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
