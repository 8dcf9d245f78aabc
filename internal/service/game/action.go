package game

type JoinGameRequest struct {
	JoinerName string `json:"joiner_name"`
}

type JoinGameResponse struct {
	Joiner Player `json:"joiner"`
	HostID string `json:"host_id"`
}

// AnswerRequest 是对最近一次提问的回答，没有待回答的提问时会被丢弃
type AnswerRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Text string `json:"text"`
}
