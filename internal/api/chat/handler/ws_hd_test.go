package chatHandler

import (
	"net"
	"testing"
	"time"

	"MedlyChatbot/internal/api/chat"
	"MedlyChatbot/internal/entity"
	"MedlyChatbot/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, app *fiber.App) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.ShutdownWithTimeout(time.Second)
	})

	return "ws://" + ln.Addr().String() + "/ws/chat"
}

func exchange(t *testing.T, conn *websocket.Conn, body string) map[string]interface{} {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(body)))

	var payload map[string]interface{}
	require.NoError(t, conn.ReadJSON(&payload))
	return payload
}

func TestChatSocket(t *testing.T) {
	svc := &fakeService{reply: &entity.Reply{Text: "Free shipping."}}
	url := serve(t, newTestApp(t, svc, chat.FormatRich))

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := exchange(t, conn, `{"message":"shipping"}`)
	assert.Equal(t, "Free shipping.", first["text"])
	assert.Contains(t, first, "card")
	token, _ := first["session_token"].(string)
	assert.NotEmpty(t, token)

	second := exchange(t, conn, `{"message":"delivery time"}`)
	assert.Equal(t, "Free shipping.", second["text"])
	assert.NotContains(t, second, "session_token")

	empty := exchange(t, conn, `{"message":""}`)
	assert.Equal(t, map[string]interface{}{"error": "Empty message"}, empty)

	broken := exchange(t, conn, `not json`)
	assert.Equal(t, "Empty message", broken["error"])

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.sessions, 2)
	assert.Equal(t, svc.sessions[0], svc.sessions[1])
}

func TestChatSocketResumesSessionFromQuery(t *testing.T) {
	svc := &fakeService{reply: &entity.Reply{Text: "ok"}}
	url := serve(t, newTestApp(t, svc, chat.FormatRich))

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	first := exchange(t, conn, `{"message":"hi"}`)
	token, _ := first["session_token"].(string)
	require.NotEmpty(t, token)
	require.NoError(t, conn.Close())

	resumed, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer resumed.Close()

	again := exchange(t, resumed, `{"message":"hi again"}`)
	assert.NotContains(t, again, "session_token")

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.sessions, 2)
	assert.Equal(t, svc.sessions[0], svc.sessions[1])
}

func TestChatSocketSimpleFormat(t *testing.T) {
	svc := &fakeService{reply: &entity.Reply{Text: "Cash on delivery is available."}}
	url := serve(t, newTestApp(t, svc, chat.FormatSimple))

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	payload := exchange(t, conn, `{"message":"cod"}`)
	assert.Equal(t, "Cash on delivery is available.", payload["reply"])
}

func TestChatSocketFramesAreRateLimited(t *testing.T) {
	svc := &fakeService{reply: &entity.Reply{Text: "Free shipping."}}
	// the upgrade and the first frame use the whole burst
	app := newTestAppWith(t, svc, chat.FormatRich, time.Second, middleware.Config{RateLimit: 0.001, RateBurst: 2})
	url := serve(t, app)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := exchange(t, conn, `{"message":"shipping"}`)
	assert.Equal(t, "Free shipping.", first["text"])

	second := exchange(t, conn, `{"message":"shipping"}`)
	assert.Equal(t, "Too many requests", second["error"])
	assert.NotContains(t, second, "text")

	// the connection stays usable
	third := exchange(t, conn, `{"message":"shipping"}`)
	assert.Equal(t, "Too many requests", third["error"])

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Len(t, svc.messages, 1)
}
