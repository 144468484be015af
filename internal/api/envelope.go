package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion identifies the response envelope format so clients can
// detect incompatible changes.
const envelopeVersion = 1

type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   any  `json:"error"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope:
// {"v":1,"success":true,"data":...} for successes and
// {"v":1,"success":false,"error":{...}} for errors.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{V: envelopeVersion, Success: false, Error: apiErr}, nil
	}
	return &successEnvelope{V: envelopeVersion, Success: true, Data: v}, nil
}
