package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// inDir runs the test from dir so Load sees its .env and theblog.yaml.
func inDir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	inDir(t, t.TempDir())
	t.Setenv("PUBLIC_STRAPI_URL", "")
	os.Unsetenv("PUBLIC_STRAPI_URL")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StrapiURL != DefaultStrapiURL || cfg.ContentDir != "content" || cfg.CMS.Addr != ":1337" || cfg.CMS.DBPath != "theblog-cms.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.File != "" {
		t.Errorf("File = %q", cfg.File)
	}
	if !strings.HasSuffix(cfg.SessionFile, filepath.Join("theblog", "storage.yaml")) {
		t.Errorf("SessionFile = %q", cfg.SessionFile)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)
	yaml := "strapiURL: https://cms.example.com/\ncontentDir: posts\ncms:\n  addr: \":9000\"\n"
	if err := os.WriteFile(filepath.Join(dir, "theblog.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STRAPI_API_TOKEN", "secret")
	t.Setenv("THEBLOG_CMS_DBPATH", "/tmp/other.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StrapiURL != "https://cms.example.com" {
		t.Errorf("StrapiURL = %q", cfg.StrapiURL)
	}
	if cfg.APIToken != "secret" || cfg.ContentDir != "posts" || cfg.CMS.Addr != ":9000" || cfg.CMS.DBPath != "/tmp/other.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if filepath.Base(cfg.File) != "theblog.yaml" {
		t.Errorf("File = %q", cfg.File)
	}

	t.Setenv("PUBLIC_STRAPI_URL", "http://env.example.com/")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StrapiURL != "http://env.example.com" {
		t.Errorf("env StrapiURL = %q", cfg.StrapiURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("THEBLOG_CONTENTDIR=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("THEBLOG_CONTENTDIR") })

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ContentDir != "from-dotenv" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	inDir(t, t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("missing explicit config file accepted")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theblog.yaml")
	if err := os.WriteFile(path, []byte("contentDir: one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan Config, 4)
	if err := Watch(path, func(cfg Config, err error) {
		if err != nil {
			return
		}
		select {
		case changes <- cfg:
		default:
		}
	}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("contentDir: two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.ContentDir == "two" {
				return
			}
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}

func TestWatchNeedsFile(t *testing.T) {
	if err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(Config, error) {}); err == nil {
		t.Error("Watch without a file succeeded")
	}
}
