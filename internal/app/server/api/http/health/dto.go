package health

type Input struct{}

type Output struct {
	Body Response
}

// Response - состояние сервиса и высота последнего проиндексированного блока.
type Response struct {
	Status string `json:"status" example:"OK" doc:"Состояние сервиса"`
	Height int64  `json:"height" example:"1024" doc:"Текущая высота индекса леджера"`
}
