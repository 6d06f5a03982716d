package gemini

import (
	"context"
	"io"
	"movie_curator/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"x\"}"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret", "gemini-test", time.Second)
	text, err := client.Generate(context.Background(), "analyze", true)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, text)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "analyze", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGenerateErrors(t *testing.T) {
	status := http.StatusOK
	body := `{"candidates":[]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()
	client := NewClient(server.URL, "secret", "gemini-test", time.Second)

	_, err := client.Generate(context.Background(), "p", true)
	assert.Equal(t, model.KindSchema, model.KindOf(err))
	assert.Equal(t, model.MsgCuratorBusy, model.UserMessage(err))

	status = http.StatusTooManyRequests
	_, err = client.Generate(context.Background(), "p", true)
	assert.Equal(t, model.KindTransport, model.KindOf(err))
}

func TestGenerateWithoutKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", "gemini-test", time.Second)
	_, err := client.Generate(context.Background(), "p", false)
	assert.ErrorIs(t, err, model.ErrGeminiKeyMissing)
}
