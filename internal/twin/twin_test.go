package twin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"replyterm/internal/model"
	"replyterm/internal/reply"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startTwin(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	tw := New(cfg, zap.NewNop())
	srv := httptest.NewServer(tw.Router())
	t.Cleanup(srv.Close)
	return tw, srv
}

func controllerFor(t *testing.T, srv *httptest.Server) *reply.Controller {
	t.Helper()
	client, err := reply.NewClient(srv.URL, srv.Client(), zap.NewNop())
	require.NoError(t, err)
	return reply.NewController(client, nil, zap.NewNop())
}

func TestGenerate_CannedReply(t *testing.T) {
	tw, srv := startTwin(t, Config{Reply: "Thanks, I'll get back to you soon."})
	c := controllerFor(t, srv)

	d := model.Draft{EmailContent: "Are you free?", Tone: model.ToneCasual, ReplyHints: "say maybe"}
	got := c.Submit(context.Background(), d)

	assert.Equal(t, reply.Succeeded{Reply: "Thanks, I'll get back to you soon."}, got)
	assert.Equal(t, []reply.GenerateRequest{
		{EmailContent: "Are you free?", Tone: "casual", ReplyHints: "say maybe"},
	}, tw.Requests())
}

func TestGenerate_TemplatedReply(t *testing.T) {
	_, srv := startTwin(t, Config{})
	c := controllerFor(t, srv)

	got := c.Submit(context.Background(), model.Draft{
		EmailContent: "Lunch?",
		Tone:         model.ToneProfessional,
		ReplyHints:   "I can do Tuesday",
	})
	s, ok := got.(reply.Succeeded)
	require.True(t, ok, "got %#v", got)
	assert.Equal(t, "Dear colleague,\n\nThank you for your email. I can do Tuesday.\n\nKind regards", s.Reply)
}

func TestGenerate_FaultWithMessage(t *testing.T) {
	tw, srv := startTwin(t, Config{})
	tw.SetFault(&Fault{Status: http.StatusInternalServerError, Message: "rate limited"})
	c := controllerFor(t, srv)

	assert.Equal(t, reply.Failed{Message: "rate limited"}, c.Submit(context.Background(), model.Draft{EmailContent: "x"}))
}

func TestGenerate_FaultWithoutBody(t *testing.T) {
	tw, srv := startTwin(t, Config{})
	tw.SetFault(&Fault{Status: http.StatusServiceUnavailable})
	c := controllerFor(t, srv)

	assert.Equal(t, reply.Failed{Message: reply.GenericFailureMessage}, c.Submit(context.Background(), model.Draft{EmailContent: "x"}))
}

func TestGenerate_Validation(t *testing.T) {
	_, srv := startTwin(t, Config{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad json", `{`, "invalid JSON body"},
		{"missing content", `{"emailContent":"  ","tone":"","replyHints":""}`, "emailContent is required"},
		{"unknown tone", `{"emailContent":"hi","tone":"angry","replyHints":""}`, `unknown tone "angry"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+reply.GeneratePath, "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.want, body["message"])
		})
	}
}

func TestRequestIDEchoed(t *testing.T) {
	_, srv := startTwin(t, Config{Reply: "ok"})

	req, err := http.NewRequest(http.MethodPost, srv.URL+reply.GeneratePath, strings.NewReader(`{"emailContent":"hi"}`))
	require.NoError(t, err)
	req.Header.Set(reply.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(reply.RequestIDHeader))
}

func TestAdminRoutes(t *testing.T) {
	tw, srv := startTwin(t, Config{Reply: "ok"})

	resp, err := http.Post(srv.URL+"/admin/fault", "application/json", bytes.NewBufferString(`{"status":429,"message":"slow down"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c := controllerFor(t, srv)
	assert.Equal(t, reply.Failed{Message: "slow down"}, c.Submit(context.Background(), model.Draft{EmailContent: "x"}))

	resp, err = http.Post(srv.URL+"/admin/fault", "application/json", bytes.NewBufferString(`{"status":200}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/admin/fault", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, reply.Succeeded{Reply: "ok"}, c.Submit(context.Background(), model.Draft{EmailContent: "x"}))

	resp, err = http.Get(srv.URL + "/admin/requests")
	require.NoError(t, err)
	var recorded []reply.GenerateRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recorded))
	resp.Body.Close()
	assert.Len(t, recorded, 2)

	resp, err = http.Post(srv.URL+"/admin/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, tw.Requests())
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "Hello,\n\nThank you for your email.\n\nBest regards", Compose(model.ToneNone, ""))
	assert.Equal(t, "Hey,\n\nThank you for your email. See you then.\n\nLater", Compose(model.ToneCasual, " See you then. "))
}
