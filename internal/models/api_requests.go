package models

// WindowQuery is the common ?window= parameter of the stats endpoints
type WindowQuery struct {
	Window int `validate:"min=1,max=200"`
}

type PairQuery struct {
	Player1 string `validate:"required"`
	Player2 string `validate:"required,nefield=Player1"`
	Window  int    `validate:"min=1,max=200"`
}

// AnalyzeFixtureRequest asks for a fixture analysis over caller-supplied records
type AnalyzeFixtureRequest struct {
	Player1 string     `json:"player1" validate:"required"`
	Player2 string     `json:"player2" validate:"required,nefield=Player1"`
	Window  int        `json:"window" validate:"omitempty,min=1,max=200"`
	Matches []RawMatch `json:"matches" validate:"required,min=1,max=5000"`
}

type IngestResponse struct {
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Discarded int    `json:"discarded"`
}
