package handler

import (
	"testing"

	"memebot/internal/domain"
	"memebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "multi-word category keeps inner spaces",
			input:    "change my mind",
			expected: "change my mind",
		},
		{
			name:     "mode token",
			input:    "video",
			expected: "video",
		},
		{
			name:     "padding around category",
			input:    "  dark humor \n",
			expected: "dark humor",
		},
		{
			name:     "control characters around category",
			input:    "\x00dark humor\x01",
			expected: "dark humor",
		},
		{
			name:     "tab inside category is dropped",
			input:    "dark\thumor",
			expected: "darkhumor",
		},
		{
			name:     "emoji survive",
			input:    "🎲 random",
			expected: "🎲 random",
		},
		{
			name:     "only control characters",
			input:    "\x00\x1b",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCallbackData(tt.input))
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name           string
		callback       tele.Callback
		expectedUnique string
		expectedData   string
	}{
		{
			name:           "split by telebot",
			callback:       tele.Callback{Unique: "pick", Data: "change my mind"},
			expectedUnique: "pick",
			expectedData:   "change my mind",
		},
		{
			name:           "split by telebot with control characters",
			callback:       tele.Callback{Unique: "pick", Data: "\x00wholesome\x7f"},
			expectedUnique: "pick",
			expectedData:   "wholesome",
		},
		{
			name:           "raw payload with trailing newline",
			callback:       tele.Callback{Data: "\fpick|dark humor\n"},
			expectedUnique: "pick",
			expectedData:   "dark humor",
		},
		{
			name:           "raw button without payload",
			callback:       tele.Callback{Data: "\fpick"},
			expectedUnique: "",
			expectedData:   "pick",
		},
		{
			name:           "plain data is not split",
			callback:       tele.Callback{Data: "top|bottom"},
			expectedUnique: "",
			expectedData:   "top|bottom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, data := decodeCallback(&tt.callback)
			assert.Equal(t, tt.expectedUnique, unique)
			assert.Equal(t, tt.expectedData, data)
		})
	}
}

func TestHandleCallback_Payloads(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{name: "mode token", data: "\fpick|edit", expected: "edit"},
		{name: "multi-word category", data: "\fpick|change my mind", expected: "change my mind"},
		{name: "control characters around category", data: "\fpick|\x00dark humor\t", expected: "dark humor"},
		{name: "newline after category", data: "\fpick|distracted\n", expected: "distracted"},
		{name: "button without payload", data: "\fpick", expected: ""},
		{name: "unknown button", data: "\fvote|up", expected: ""},
		{name: "not a button payload", data: "edit", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConversation{}
			h, bot, fake := setupHandler(t, conv)

			update := testutil.CallbackUpdate(1, 42, "pick", "")
			update.Callback.Data = tt.data

			bot.ProcessUpdate(update)
			h.Wait()

			assert.Len(t, fake.Calls("answerCallbackQuery"), 1)

			events := conv.Events()
			if tt.expected == "" {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventSelect, events[0].Kind)
			assert.Equal(t, tt.expected, events[0].Payload)
		})
	}
}
