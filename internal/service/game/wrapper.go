package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_JOIN_GAME = "JoinGame"
	REQ_ANSWER    = "Answer"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`
}

func TryUnwrapJoinGameRequest(wrapper RequestWrapper) *JoinGameRequest {
	if wrapper.ReqType != REQ_JOIN_GAME {
		return nil
	}

	var joinGameRequest JoinGameRequest

	err := json.Unmarshal(wrapper.Data, &joinGameRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap JoinGameRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &joinGameRequest
}

func TryUnwrapAnswerRequest(wrapper RequestWrapper) *AnswerRequest {
	if wrapper.ReqType != REQ_ANSWER {
		return nil
	}

	var answerRequest AnswerRequest

	err := json.Unmarshal(wrapper.Data, &answerRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap AnswerRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &answerRequest
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_JOIN_GAME = "JoinGame"
	RESP_MESSAGE   = "Message"
	RESP_PROMPT    = "Prompt"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
