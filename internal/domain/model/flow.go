package model

import "flowci-console/pkg/ordered"

// YmlStatus is the value of the FLOW_YML_STATUS environment variable while the
// server fetches and parses a flow definition from git.
type YmlStatus string

const (
	YmlGitLoading YmlStatus = "GIT_LOADING"
	YmlGitLoaded  YmlStatus = "GIT_LOADED"
	YmlError      YmlStatus = "ERROR"
	YmlFound      YmlStatus = "FOUND"
	YmlNotFound   YmlStatus = "NOT_FOUND"
)

// TerminalYmlStatuses stop the test-result poll. GIT_LOADING and any value not
// listed here keep it running.
var TerminalYmlStatuses = []YmlStatus{YmlGitLoaded, YmlError, YmlFound, YmlNotFound}

// Flow environment variable names.
const (
	EnvYmlStatus     = "FLOW_YML_STATUS"
	EnvGitSource     = "FLOW_GIT_SOURCE"
	EnvGitURL        = "FLOW_GIT_URL"
	EnvGitCredential = "FLOW_GIT_CREDENTIAL"
	EnvGitHTTPUser   = "FLOW_GIT_HTTP_USER"
	EnvGitHTTPPass   = "FLOW_GIT_HTTP_PASS"
)

// EnvsField holds the polled environment of a flow record.
const EnvsField = "envs"

// CredentialType selects how the server authenticates against the git remote.
type CredentialType string

const (
	CredentialSSH  CredentialType = "SSH"
	CredentialHTTP CredentialType = "HTTP"
	CredentialNone CredentialType = ""
)

// GitSettings is what the create-flow wizard collects about the repository.
type GitSettings struct {
	Type     CredentialType
	Source   string
	URL      string
	Deploy   string // credential name, SSH only
	Username string // HTTP only
	Password string // HTTP only
}

// CreateEnv builds the environment variables that connect a new flow to its repository.
func CreateEnv(s GitSettings) ordered.Map[string, string] {
	env := ordered.Of(
		ordered.Pair[string, string]{Key: EnvGitSource, Value: s.Source},
		ordered.Pair[string, string]{Key: EnvGitURL, Value: s.URL},
	)

	switch s.Type {
	case CredentialSSH:
		env = env.Set(EnvGitCredential, s.Deploy)
	case CredentialHTTP:
		env = env.Set(EnvGitHTTPUser, s.Username).Set(EnvGitHTTPPass, s.Password)
	}
	return env
}
