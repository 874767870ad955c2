package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultJiraServer    = "https://aeadataeditors.atlassian.net"
	defaultPurgeHelper   = "/usr/local/bin/jira_purge_query"
	defaultCasePrefix    = "aearep"
	defaultArchiveFolder = "1Completed"
	defaultAutomation    = "aeadata"
)

// Config is built once at startup and passed by reference into every
// collaborator; business logic never reads the environment directly.
type Config struct {
	// Box
	RootFolderID    string
	BoxPrivateJSON  string // base64 encoded credential blob, wins over the file triple
	BoxConfigPath   string // directory containing <enterprise>_<key>_config.json
	BoxKeyID        string
	BoxEnterpriseID string

	// Jira
	JiraUsername string
	JiraAPIKey   string
	JiraServer   string

	// Workflow
	PurgeHelperPath   string
	CasePrefix        string
	ArchiveFolderName string
	AutomationUser    string
}

// LoadFromEnv reads configuration from environment variables. Callers are
// expected to have loaded .env already (see cmd/casekeeper).
func LoadFromEnv() *Config {
	return &Config{
		RootFolderID:      getEnv("BOX_FOLDER_PRIVATE", ""),
		BoxPrivateJSON:    getEnv("BOX_PRIVATE_JSON", ""),
		BoxConfigPath:     getEnv("BOX_CONFIG_PATH", ""),
		BoxKeyID:          getEnv("BOX_PRIVATE_KEY_ID", ""),
		BoxEnterpriseID:   getEnv("BOX_ENTERPRISE_ID", ""),
		JiraUsername:      getEnv("JIRA_USERNAME", ""),
		JiraAPIKey:        getEnv("JIRA_API_KEY", ""),
		JiraServer:        getEnv("JIRA_SERVER", defaultJiraServer),
		PurgeHelperPath:   getEnv("PURGE_HELPER_PATH", defaultPurgeHelper),
		CasePrefix:        getEnv("CASE_PREFIX", defaultCasePrefix),
		ArchiveFolderName: getEnv("ARCHIVE_FOLDER_NAME", defaultArchiveFolder),
		AutomationUser:    getEnv("AUTOMATION_USER", defaultAutomation),
	}
}

// ValidateClean checks the variables the cleanup workflow cannot run without.
func (c *Config) ValidateClean() error {
	if c.RootFolderID == "" {
		return errors.New("BOX_FOLDER_PRIVATE environment variable not set")
	}
	return c.validateBoxAuth()
}

// ValidateRecover checks the variables the recovery workflow cannot run without.
func (c *Config) ValidateRecover() error {
	if c.RootFolderID == "" {
		return errors.New("BOX_FOLDER_PRIVATE environment variable not set")
	}
	if err := c.validateBoxAuth(); err != nil {
		return err
	}
	if c.JiraUsername == "" || c.JiraAPIKey == "" {
		return errors.New("JIRA_USERNAME and JIRA_API_KEY environment variables required")
	}
	return nil
}

func (c *Config) validateBoxAuth() error {
	if c.BoxPrivateJSON != "" {
		return nil
	}
	if c.BoxConfigPath == "" || c.BoxKeyID == "" || c.BoxEnterpriseID == "" {
		return errors.New("missing Box credentials: set BOX_PRIVATE_JSON or (BOX_CONFIG_PATH, BOX_PRIVATE_KEY_ID, BOX_ENTERPRISE_ID)")
	}
	return nil
}

// CredentialJSON resolves the raw Box credential document, either from the
// base64 blob or from the config file derived from the env triple.
func (c *Config) CredentialJSON() ([]byte, error) {
	if c.BoxPrivateJSON != "" {
		data, err := base64.StdEncoding.DecodeString(c.BoxPrivateJSON)
		if err != nil {
			return nil, fmt.Errorf("decode BOX_PRIVATE_JSON: %w", err)
		}
		return data, nil
	}

	file := filepath.Join(c.BoxConfigPath, fmt.Sprintf("%s_%s_config.json", c.BoxEnterpriseID, c.BoxKeyID))
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read box config %s: %w", file, err)
	}
	return data, nil
}

// IssueKey builds the fully qualified ticket key for a numeric case id.
func (c *Config) IssueKey(caseNumber string) string {
	return fmt.Sprintf("%s-%s", c.CasePrefix, caseNumber)
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
