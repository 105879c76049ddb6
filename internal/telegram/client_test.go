package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestClient creates a test server and a Client pointed at it.
func setupTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		token:   "test_token",
		chatID:  "@testchannel",
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return c, server
}

func TestSend_Success(t *testing.T) {
	// Arrange
	var gotText, gotChatID, gotParseMode string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest_token/sendMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		gotChatID = r.PostFormValue("chat_id")
		gotParseMode = r.PostFormValue("parse_mode")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	c, server := setupTestClient(handler)
	defer server.Close()

	// Act
	err := c.Send(context.Background(), "*hello*")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "*hello*", gotText)
	assert.Equal(t, "@testchannel", gotChatID)
	assert.Equal(t, "Markdown", gotParseMode)
}

func TestSend_TruncatesLongMessages(t *testing.T) {
	// Arrange
	var gotText string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	c, server := setupTestClient(handler)
	defer server.Close()

	// Act
	err := c.Send(context.Background(), strings.Repeat("x", 5000))

	// Assert: cut at 4000 characters with the marker appended, under the
	// 4096 ceiling.
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotText, truncationMarker))
	assert.Equal(t, truncateAt+utf8.RuneCountInString(truncationMarker), utf8.RuneCountInString(gotText))
	assert.LessOrEqual(t, utf8.RuneCountInString(gotText), maxMessageLength)
}

func TestSend_TruncationKeepsValidUTF8(t *testing.T) {
	// Arrange
	var gotText string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	c, server := setupTestClient(handler)
	defer server.Close()

	// Emoji are 4-byte runes, so every byte offset near the cut point falls
	// inside a rune; the truncation must land on a rune boundary anyway.
	long := strings.Repeat("💱📈", 3000)

	// Act
	err := c.Send(context.Background(), long)

	// Assert
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(gotText))
	assert.True(t, strings.HasSuffix(gotText, truncationMarker))
	assert.Equal(t, truncateAt+utf8.RuneCountInString(truncationMarker), utf8.RuneCountInString(gotText))
}

func TestSend_APIRejection(t *testing.T) {
	// Arrange: Telegram answers 200 with ok=false.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	})

	c, server := setupTestClient(handler)
	defer server.Close()

	// Act
	err := c.Send(context.Background(), "hello")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSend_BadRequestIsNotRetried(t *testing.T) {
	// Arrange
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false, "description": "can't parse entities"}`))
	})

	c, server := setupTestClient(handler)
	defer server.Close()

	// Act
	err := c.Send(context.Background(), "broken *markdown")

	// Assert: a 400 is permanent, no retries.
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
