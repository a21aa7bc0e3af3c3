package chat

import (
	"strings"
	"testing"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantCode string
	}{
		{
			name: "valid minimal request",
			req:  Request{UserID: "alice", Message: "hello"},
		},
		{
			name: "valid with session and metadata",
			req: Request{
				UserID:    "alice",
				Message:   "hello",
				SessionID: "session-1",
				Metadata:  map[string]any{"channel": "web"},
			},
		},
		{
			name:     "missing user_id",
			req:      Request{Message: "hello"},
			wantCode: "invalid_user_id",
		},
		{
			name:     "whitespace user_id",
			req:      Request{UserID: "   ", Message: "hello"},
			wantCode: "invalid_user_id",
		},
		{
			name:     "user_id too long",
			req:      Request{UserID: strings.Repeat("a", MaxUserIDLength+1), Message: "hello"},
			wantCode: "invalid_user_id",
		},
		{
			name: "user_id at limit",
			req:  Request{UserID: strings.Repeat("a", MaxUserIDLength), Message: "hello"},
		},
		{
			name:     "missing message",
			req:      Request{UserID: "alice"},
			wantCode: "invalid_message",
		},
		{
			name:     "whitespace message",
			req:      Request{UserID: "alice", Message: " \n\t "},
			wantCode: "invalid_message",
		},
		{
			name:     "message too long",
			req:      Request{UserID: "alice", Message: strings.Repeat("x", MaxMessageLength+1)},
			wantCode: "invalid_message",
		},
		{
			name: "message at limit",
			req:  Request{UserID: "alice", Message: strings.Repeat("x", MaxMessageLength)},
		},
		{
			name:     "session_id too long",
			req:      Request{UserID: "alice", Message: "hello", SessionID: strings.Repeat("s", MaxSessionIDLength+1)},
			wantCode: "invalid_session_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want code %q", tt.wantCode)
			}
			if err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", err.Code, tt.wantCode)
			}
			if err.HTTPStatus != 400 {
				t.Errorf("status = %d, want 400", err.HTTPStatus)
			}
			if len(err.Suggestions) == 0 {
				t.Error("validation errors should carry suggestions")
			}
		})
	}
}

func TestValidateLeavesRequestUntouched(t *testing.T) {
	req := Request{UserID: "  alice  ", Message: "  hi  "}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if req.UserID != "  alice  " || req.Message != "  hi  " {
		t.Error("Validate must not mutate the request")
	}
}
