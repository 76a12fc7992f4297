package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeNeverNullData(t *testing.T) {
	b, err := json.Marshal(Error(CodeNotFound, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":404,"msg":"Not Found","data":{}}`, string(b))

	b, err = json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))
}

func TestErrorWithData(t *testing.T) {
	r := ErrorWithData(CodeBadRequest, "validation failed", map[string]string{"title": "is required"})
	assert.Equal(t, "validation failed", r.Msg)
	assert.Equal(t, map[string]string{"title": "is required"}, r.Data)
}
