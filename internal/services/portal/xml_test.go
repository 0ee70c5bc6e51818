package portal

import (
	"testing"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "sophos login answer",
			body:        `<?xml version='1.0' ?><requestresponse><status><![CDATA[LIVE]]></status><message><![CDATA[You are signed in as {username}]]></message><logoutmessage><![CDATA[You have successfully logged off]]></logoutmessage></requestresponse>`,
			wantStatus:  "LIVE",
			wantMessage: "You are signed in as {username}",
		},
		{
			name:        "text is trimmed",
			body:        "<r>\n  <status>\n    LOGIN\n  </status>\n  <message> Invalid user name/password. </message>\n</r>",
			wantStatus:  "LOGIN",
			wantMessage: "Invalid user name/password.",
		},
		{
			name:        "missing elements yield empty strings",
			body:        `<requestresponse><other>x</other></requestresponse>`,
			wantStatus:  "",
			wantMessage: "",
		},
		{
			name:        "first occurrence wins",
			body:        `<r><status>LIVE</status><status>LOGIN</status><message>a</message><message>b</message></r>`,
			wantStatus:  "LIVE",
			wantMessage: "a",
		},
		{
			name:        "nested elements found at any depth",
			body:        `<r><inner><status>LIVE</status></inner><message>m<b>bold</b>!</message></r>`,
			wantStatus:  "LIVE",
			wantMessage: "mbold!",
		},
		{
			name:        "status is case sensitive text",
			body:        `<r><status>live</status></r>`,
			wantStatus:  "live",
			wantMessage: "",
		},
		{
			name:        "latin-1 declaration",
			body:        "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r><status>LIVE</status><message>caf\xe9</message></r>",
			wantStatus:  "LIVE",
			wantMessage: "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.body))

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace only", body: "   \n"},
		{name: "html page", body: "<html><body><p>Login</body></html>"},
		{name: "unclosed root", body: "<r><status>LIVE</status>"},
		{name: "plain text", body: "Service Unavailable"},
		{name: "two roots", body: "<status>LIVE</status><message>two roots</message>"},
		{name: "text after root", body: "<r><status>LIVE</status></r>trailing junk"},
		{name: "text before root", body: "junk before root <r><status>LIVE</status></r>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse([]byte(tt.body))

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "parsing portal response")
		})
	}
}

func TestParseResponse_AllowsProlog(t *testing.T) {
	body := "<?xml version='1.0' ?>\n<!-- gateway -->\n<!DOCTYPE requestresponse>\n" +
		"<requestresponse><status>LIVE</status><message>ok</message></requestresponse>\n<!-- end -->\n"

	resp, err := ParseResponse([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, resp.Status)
	assert.Equal(t, "ok", resp.Message)
}
