// Package importer loads persona seed files into a user's account.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/models"
)

const fetchTimeout = 30 * time.Second

// maxSeedSize bounds remote seed downloads.
const maxSeedSize = 10 << 20

// Service imports persona seed data through the persona service.
type Service struct {
	personas   service.PersonaService
	httpClient *http.Client
	keepIDs    bool
}

// NewService creates a new importer service.
func NewService(personas service.PersonaService) *Service {
	return &Service{
		personas:   personas,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// SetKeepIDs makes the import update personas with matching ids instead of
// creating new records.
func (s *Service) SetKeepIDs(keep bool) {
	s.keepIDs = keep
}

// SetHTTPClient overrides the client used for remote seed files.
func (s *Service) SetHTTPClient(c *http.Client) {
	if c != nil {
		s.httpClient = c
	}
}

// Result reports what an import did.
type Result struct {
	Imported int
	Failed   []string
}

// ImportFromPath imports personas from a local file or an http(s) URL. The
// data is a JSON or YAML array of persona configurations. Every persona is
// saved for the user in ctx, so slugs and system prompts are recomputed.
func (s *Service) ImportFromPath(ctx context.Context, path string) (*Result, error) {
	personas, err := s.readSeedFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed data: %w", err)
	}

	res := &Result{}
	total := len(personas)
	for i, p := range personas {
		logging.Log(ctx, logging.ServiceLog, zapcore.DebugLevel, "importing persona",
			zap.Int("index", i+1), zap.Int("total", total), zap.String("name", p.Name))

		if !s.keepIDs {
			p.ID = ""
		}
		if _, err := s.personas.SavePersona(ctx, p); err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", displayName(p, i), err))
			logging.Log(ctx, logging.ServiceLog, zapcore.WarnLevel, "failed to import persona",
				zap.String("name", p.Name), zap.Error(err))
			continue
		}
		res.Imported++
	}

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("failed to import %d of %d personas", len(res.Failed), total)
	}
	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "import completed",
		zap.Int("imported", res.Imported), zap.String("source", path))
	return res, nil
}

func (s *Service) readSeedFile(ctx context.Context, path string) ([]*models.Persona, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		data, err = s.fetchFromHTTP(ctx, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return parseSeed(data)
}

func (s *Service) fetchFromHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxSeedSize {
		return nil, fmt.Errorf("seed file at %s exceeds %d bytes", url, maxSeedSize)
	}
	return data, nil
}

// parseSeed accepts a JSON array, or a YAML sequence using the same field names.
func parseSeed(data []byte) ([]*models.Persona, error) {
	var personas []*models.Persona
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("seed file is empty")
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &personas); err != nil {
			return nil, fmt.Errorf("failed to parse JSON seed: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &personas); err != nil {
		return nil, fmt.Errorf("failed to parse YAML seed: %w", err)
	}

	out := personas[:0]
	for _, p := range personas {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func displayName(p *models.Persona, index int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("persona #%d", index+1)
}
