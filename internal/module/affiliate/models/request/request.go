package request

type ApplyCode struct {
	Code string `json:"code" validate:"required,max=32"`
}
