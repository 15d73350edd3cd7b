package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultClientConfig("test-token")
	config.BaseURL = server.URL
	config.RetryAttempts = 0
	config.RetryDelay = time.Millisecond
	return NewClient(config)
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := APIResponse{OK: true, Result: json.RawMessage(`{"message_id": 42, "chat": {"id": 7, "type": "private"}}`)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	msg, err := client.SendText(context.Background(), 7, "merhaba")
	require.NoError(t, err)
	assert.Equal(t, int64(42), msg.MessageID)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "merhaba", gotBody["text"])
	assert.Equal(t, float64(7), gotBody["chat_id"])
	assert.NotContains(t, gotBody, "parse_mode")
}

func TestSendHTML_SetsParseMode(t *testing.T) {
	var gotBody map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		resp := APIResponse{OK: true, Result: json.RawMessage(`{"message_id": 1, "chat": {"id": 7, "type": "private"}}`)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := client.SendHTML(context.Background(), 7, "<pre>karne</pre>")
	require.NoError(t, err)
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := APIResponse{OK: false, ErrorCode: 400, Description: "Bad Request: chat not found"}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := client.SendText(context.Background(), 7, "merhaba")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestGetUpdates_AdvancesOffsetInPolling(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// First poll has no offset; afterwards it must be last id + 1.
		if _, ok := body["offset"]; !ok {
			resp := APIResponse{OK: true, Result: json.RawMessage(`[{"update_id": 10}, {"update_id": 11}]`)}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
			return
		}
		assert.Equal(t, float64(12), body["offset"])
		resp := APIResponse{OK: true, Result: json.RawMessage(`[]`)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	updates, err := client.GetUpdates(context.Background(), 0, 1)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	ctx, cancel := context.WithCancel(context.Background())
	seen := 0
	_ = client.StartPolling(ctx, func(_ context.Context, update *Update) error {
		seen++
		if seen == 2 {
			// Trigger one more poll so the offset assertion above runs,
			// then stop.
			go func() {
				time.Sleep(50 * time.Millisecond)
				cancel()
			}()
		}
		return nil
	})
	assert.Equal(t, 2, seen)
}

func TestSendDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notlar.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("workbook-bytes"), 0o644))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "7", r.FormValue("chat_id"))
		assert.Equal(t, "rapor", r.FormValue("caption"))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notlar.xlsx", header.Filename)

		resp := APIResponse{OK: true, Result: json.RawMessage(`{"message_id": 5, "chat": {"id": 7, "type": "private"}, "document": {"file_id": "abc", "file_name": "notlar.xlsx"}}`)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	msg, err := client.SendDocument(context.Background(), 7, path, "rapor")
	require.NoError(t, err)
	require.NotNil(t, msg.Document)
	assert.Equal(t, "notlar.xlsx", msg.Document.FileName)
}

func TestMessageIsCommand(t *testing.T) {
	msg := &Message{
		Text:     "/karne 1001",
		Entities: []MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
	assert.True(t, msg.IsCommand())

	assert.False(t, (&Message{Text: "merhaba"}).IsCommand())
	assert.False(t, (&Message{
		Text:     "bak /karne",
		Entities: []MessageEntity{{Type: "bot_command", Offset: 4, Length: 6}},
	}).IsCommand())
}
