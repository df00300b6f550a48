package command

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/farukkavlak/miniform/internal/configs"
	"github.com/farukkavlak/miniform/internal/plans"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// planFile is the optional plan file layout: {version, timestamp,
// configHash, actions}. configHash is a sha256 of the root module's
// source bytes, used only to flag a plan file as stale relative to the
// configuration it was computed against -- apply does not currently
// refuse to run on a mismatch, since recomputing the plan live before
// executing is always correct.
type planFile struct {
	Version    string             `json:"version"`
	Timestamp  string             `json:"timestamp"`
	ConfigHash string             `json:"configHash"`
	Actions    []plans.PlanAction `json:"actions"`
}

func configHash(rootDir string) (string, error) {
	src, err := os.ReadFile(filepath.Join(rootDir, configs.RootFile))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:]), nil
}

func writePlanFile(path, rootDir string, actions []plans.PlanAction) error {
	hash, err := configHash(rootDir)
	if err != nil {
		return err
	}
	pf := planFile{
		Version:    "1.0",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		ConfigHash: hash,
		Actions:    actions,
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return tfdiags.Statef(err, "encoding plan file")
	}
	return os.WriteFile(path, data, 0o644)
}

func readPlanFile(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tfdiags.Statef(err, "reading plan file %s", path)
	}
	pf := &planFile{}
	if err := json.Unmarshal(data, pf); err != nil {
		return nil, tfdiags.Statef(err, "parsing plan file %s", path)
	}
	if err := validatePlanFile(pf); err != nil {
		return nil, err
	}
	return pf, nil
}

// validatePlanFile accepts files with a non-empty version and an
// actions array, rejecting anything else as malformed.
func validatePlanFile(pf *planFile) error {
	if pf.Version == "" {
		return tfdiags.Configf("invalid plan file: missing version")
	}
	if pf.Actions == nil {
		return tfdiags.Configf("invalid plan file: missing actions array")
	}
	return nil
}
