package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("BOX_FOLDER_PRIVATE", "123456")
	t.Setenv("JIRA_SERVER", "")
	t.Setenv("CASE_PREFIX", "")

	cfg := LoadFromEnv()
	assert.Equal(t, "123456", cfg.RootFolderID)
	assert.Equal(t, "https://aeadataeditors.atlassian.net", cfg.JiraServer)
	assert.Equal(t, "aearep", cfg.CasePrefix)
	assert.Equal(t, "1Completed", cfg.ArchiveFolderName)
	assert.Equal(t, "aeadata", cfg.AutomationUser)
}

func TestValidateClean(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateClean())

	cfg.RootFolderID = "1"
	assert.Error(t, cfg.ValidateClean(), "missing credentials must fail")

	cfg.BoxPrivateJSON = "eyJ9"
	assert.NoError(t, cfg.ValidateClean())

	cfg.BoxPrivateJSON = ""
	cfg.BoxConfigPath = "/etc/box"
	cfg.BoxKeyID = "kid"
	assert.Error(t, cfg.ValidateClean(), "incomplete triple must fail")

	cfg.BoxEnterpriseID = "ent"
	assert.NoError(t, cfg.ValidateClean())
}

func TestValidateRecoverNeedsJira(t *testing.T) {
	cfg := &Config{
		RootFolderID:   "1",
		BoxPrivateJSON: "eyJ9",
	}
	assert.Error(t, cfg.ValidateRecover())

	cfg.JiraUsername = "editor@example.org"
	cfg.JiraAPIKey = "token"
	assert.NoError(t, cfg.ValidateRecover())
}

func TestCredentialJSONFromBlob(t *testing.T) {
	raw := []byte(`{"enterpriseID":"42"}`)
	cfg := &Config{BoxPrivateJSON: base64.StdEncoding.EncodeToString(raw)}

	data, err := cfg.CredentialJSON()
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	cfg.BoxPrivateJSON = "not base64!"
	_, err = cfg.CredentialJSON()
	assert.Error(t, err)
}

func TestCredentialJSONFromFile(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`{"enterpriseID":"42"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ent_kid_config.json"), raw, 0o600))

	cfg := &Config{
		BoxConfigPath:   dir,
		BoxKeyID:        "kid",
		BoxEnterpriseID: "ent",
	}

	data, err := cfg.CredentialJSON()
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	cfg.BoxKeyID = "other"
	_, err = cfg.CredentialJSON()
	assert.Error(t, err)
}

func TestIssueKey(t *testing.T) {
	cfg := &Config{CasePrefix: "aearep"}
	assert.Equal(t, "aearep-1234", cfg.IssueKey("1234"))
}
