package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jtyocum/groupstool/internal/testpki"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// capturedRequest holds details captured from an incoming HTTP request.
type capturedRequest struct {
	Method string
	Path   string
	Query  string
}

// requestRecorder is a thread-safe recorder for requests reaching the mock
// groups service.
type requestRecorder struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (r *requestRecorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, capturedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
	})
}

func (r *requestRecorder) all() []capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedRequest(nil), r.requests...)
}

// testEnv is a mock groups service behind mutual TLS plus the files the CLI
// needs to reach it.
type testEnv struct {
	srv      *httptest.Server
	rec      *requestRecorder
	certPath string
	caPath   string
}

// isolateEnv clears every GROUPS_* variable and points HOME at an empty
// directory so no real profile is loaded.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"GROUPS_API", "GROUPS_TIMEOUT", "GROUPS_CA_BUNDLE", "GROUPS_OUTPUT", "GROUPS_DEBUG", "GROUPS_PROFILE"} {
		t.Setenv(key, "")
	}
	return home
}

func newTestEnv(t *testing.T, status int, body string) *testEnv {
	t.Helper()
	isolateEnv(t)

	rec := &requestRecorder{}
	ca := testpki.NewAuthority(t, "groups-test-ca")
	srv := testpki.NewMutualTLSServer(t, ca, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	return &testEnv{
		srv:      srv,
		rec:      rec,
		certPath: ca.IssueClientBundle(t, "groupstool"),
		caPath:   testpki.WritePEM(t, srv.Certificate()),
	}
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// run invokes the CLI against the mock service.
func (e *testEnv) run(t *testing.T, args ...string) runResult {
	t.Helper()
	full := append([]string{"--api", e.srv.URL, "--ca-cert", e.caPath}, args...)
	return run(t, full...)
}

func TestGroupsByMember_PrintsGroups(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"u_admins"}]}`)

	res := env.run(t, "groups-by-member", env.certPath, "jdoe")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "u_admins\n", res.stdout)

	reqs := env.rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/search", reqs[0].Path)
	assert.Equal(t, "member=jdoe", reqs[0].Query)
}

func TestListMembers_PrintsMembersInOrder(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"jdoe"},{"id":"asmith"}]}`)

	res := env.run(t, "list-members", env.certPath, "u_admins")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "jdoe\nasmith\n", res.stdout)

	reqs := env.rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/group/u_admins/member", reqs[0].Path)
}

func TestAddMember_PrintsStatus(t *testing.T) {
	env := newTestEnv(t, http.StatusCreated, "")

	res := env.run(t, "add-member", env.certPath, "u_admins", "jdoe")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Adding member jdoe to group u_admins: 201\n", res.stdout)

	reqs := env.rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/group/u_admins/member/jdoe", reqs[0].Path)
}

func TestRemoveMember_NotFoundStillExitsZero(t *testing.T) {
	env := newTestEnv(t, http.StatusNotFound, `{"error":"not a member"}`)

	res := env.run(t, "remove-member", env.certPath, "u_admins", "jdoe")
	assert.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Removing member jdoe from group u_admins: 404\n", res.stdout)

	reqs := env.rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
}

func TestInvalidIdentifiersAreRejectedBeforeNetwork(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[]}`)

	cases := [][]string{
		{"list-members", env.certPath, "notagroup"},
		{"groups-by-member", env.certPath, "JohnDoe99"},
		{"add-member", env.certPath, "u_", "jdoe"},
		{"remove-member", env.certPath, "u_admins", "toolongnetid"},
	}
	for _, args := range cases {
		t.Run(args[0], func(t *testing.T) {
			res := env.run(t, args...)
			assert.Equal(t, exitUsage, res.code)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, "invalid")
			assert.Contains(t, res.stderr, "--help")
		})
	}

	assert.Empty(t, env.rec.all(), "no request may reach the service")
}

func TestValidationHappensWithoutConfiguredAPI(t *testing.T) {
	isolateEnv(t)

	res := run(t, "list-members", "cert.pem", "notagroup")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "incomplete or invalid group ID")
}

func TestMissingArgumentsShowHelp(t *testing.T) {
	isolateEnv(t)

	res := run(t, "add-member")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stdout, "Adds a member to a group")
	assert.Contains(t, res.stdout, "add-member <auth_cert> <group_id> <member_uid>")
}

func TestWrongArgumentCount(t *testing.T) {
	isolateEnv(t)

	res := run(t, "add-member", "cert.pem", "u_admins")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "takes 3 arguments")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	isolateEnv(t)

	res := run(t, "list-members", "--bogus", "cert.pem", "u_admins")
	assert.Equal(t, exitUsage, res.code)
}

func TestMissingAPIIsConfigFailure(t *testing.T) {
	isolateEnv(t)

	res := run(t, "list-members", "cert.pem", "u_admins")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "no groups API configured")
}

func TestMissingCertificateIsCredentialFailure(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[]}`)

	res := env.run(t, "--output", "json", "list-members", filepath.Join(t.TempDir(), "missing.pem"), "u_admins")
	assert.Equal(t, exitFailure, res.code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.Equal(t, "credential", payload["kind"])
	assert.Empty(t, env.rec.all())
}

func TestMalformedResponseIsDecodeFailure(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":"not-a-list"}`)

	res := env.run(t, "-o", "json", "groups-by-member", env.certPath, "jdoe")
	assert.Equal(t, exitFailure, res.code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.Equal(t, "decode", payload["kind"])
}

func TestJSONOutput(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"jdoe"},{"id":"asmith"}]}`)

		res := env.run(t, "--output", "json", "list-members", env.certPath, "u_admins")
		require.Equal(t, exitOK, res.code, res.stderr)

		var ids []string
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &ids))
		assert.Equal(t, []string{"jdoe", "asmith"}, ids)
	})

	t.Run("empty list", func(t *testing.T) {
		env := newTestEnv(t, http.StatusOK, `{"data":[]}`)

		res := env.run(t, "--output", "json", "groups-by-member", env.certPath, "jdoe")
		require.Equal(t, exitOK, res.code, res.stderr)
		assert.JSONEq(t, `[]`, res.stdout)
	})

	t.Run("write", func(t *testing.T) {
		env := newTestEnv(t, http.StatusForbidden, "")

		res := env.run(t, "--output", "json", "add-member", env.certPath, "u_admins", "jdoe")
		require.Equal(t, exitOK, res.code, res.stderr)

		var result resultJSON
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &result))
		assert.Equal(t, "add-member", result.Operation)
		assert.Equal(t, "jdoe", result.Member)
		assert.Equal(t, "u_admins", result.Group)
		assert.Equal(t, http.StatusForbidden, result.Status)
		assert.NotEmpty(t, result.RequestID)
	})
}

func TestDebugLogsGoToStderr(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"u_admins"}]}`)

	res := env.run(t, "--debug", "groups-by-member", env.certPath, "jdoe")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "u_admins\n", res.stdout)
	assert.Contains(t, res.stderr, "sending request")
	assert.Contains(t, res.stderr, "received response")
}

func TestAPIFromEnvironment(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"asmith"}]}`)
	t.Setenv("GROUPS_API", env.srv.URL)
	t.Setenv("GROUPS_CA_BUNDLE", env.caPath)

	res := run(t, "list-members", env.certPath, "u_admins")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "asmith\n", res.stdout)
}

func TestAPIFromProfile(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"data":[{"id":"asmith"}]}`)
	home, _ := os.UserHomeDir()

	profile := "current-profile: test\nprofiles:\n  test:\n    api: " + env.srv.URL + "\n    ca-cert: " + env.caPath + "\n    output: json\n"
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".groupstool"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".groupstool", "config.yaml"), []byte(profile), 0o600))

	res := run(t, "list-members", env.certPath, "u_admins")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `["asmith"]`, res.stdout)
}

func TestVersion(t *testing.T) {
	isolateEnv(t)

	res := run(t, "version")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "groupstool version dev (commit: none)\n", res.stdout)
}
