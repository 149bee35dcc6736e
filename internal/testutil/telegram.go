package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v3"
)

// TelegramCall is one Bot API request received by FakeTelegram
type TelegramCall struct {
	Method string
	Params map[string]any
}

// FakeTelegram is a minimal Bot API server for handler tests
type FakeTelegram struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []TelegramCall
	failures map[string]string
	updates  []string
}

// NewFakeTelegram starts a fake Bot API server closed with the test
func NewFakeTelegram(t *testing.T) *FakeTelegram {
	t.Helper()
	f := &FakeTelegram{failures: make(map[string]string)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// FailMethod makes every call to method return an API error
func (f *FakeTelegram) FailMethod(method, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = description
}

// RestoreMethod undoes FailMethod
func (f *FakeTelegram) RestoreMethod(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, method)
}

// QueueUpdate adds a raw update JSON object to the next getUpdates reply
func (f *FakeTelegram) QueueUpdate(update string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
}

// Calls returns received calls to method, or all calls when method is empty
func (f *FakeTelegram) Calls(method string) []TelegramCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []TelegramCall
	for _, c := range f.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the text of every sendMessage call in order
func (f *FakeTelegram) Texts() []string {
	var out []string
	for _, c := range f.Calls("sendMessage") {
		out = append(out, fmt.Sprint(c.Params["text"]))
	}
	return out
}

func (f *FakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	params := map[string]any{}
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &params)
	}

	f.mu.Lock()
	f.calls = append(f.calls, TelegramCall{Method: method, Params: params})
	description, failing := f.failures[method]
	var updates []string
	if method == "getUpdates" {
		updates, f.updates = f.updates, nil
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if failing {
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":%q}`, description)
		return
	}

	switch method {
	case "getMe":
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"memebot","username":"memebot"}}`)
	case "getUpdates":
		if len(updates) == 0 {
			// stand in for the long-poll wait
			time.Sleep(10 * time.Millisecond)
		}
		fmt.Fprintf(w, `{"ok":true,"result":[%s]}`, strings.Join(updates, ","))
	case "answerCallbackQuery", "deleteWebhook", "close":
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	default:
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":10,"date":0,"chat":{"id":42,"type":"private"}}}`)
	}
}

// NewTestBot creates an offline bot talking to f
func NewTestBot(t *testing.T, f *FakeTelegram) *tele.Bot {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{
		URL:         f.URL,
		Token:       "test-token",
		Offline:     true,
		Synchronous: true,
	})
	if err != nil {
		t.Fatalf("create test bot: %v", err)
	}
	return bot
}

// MessageUpdate builds an update carrying a text message from userID
func MessageUpdate(id int, userID int64, text string) tele.Update {
	return tele.Update{
		ID: id,
		Message: &tele.Message{
			ID:     id,
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			Text:   text,
		},
	}
}

// CallbackUpdate builds an update for a press of an inline button
func CallbackUpdate(id int, userID int64, unique, data string) tele.Update {
	return tele.Update{
		ID: id,
		Callback: &tele.Callback{
			ID:     fmt.Sprintf("cb%d", id),
			Sender: &tele.User{ID: userID},
			Message: &tele.Message{
				ID:     5,
				Sender: &tele.User{ID: 1},
				Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			},
			Data: "\f" + unique + "|" + data,
		},
	}
}
