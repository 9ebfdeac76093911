// Command validate checks the table configurations in a directory
// (../configs by default). JSON and YAML files are accepted. It checks:
//   - File syntax and required fields
//   - Row and suit limits, and that the deck is large enough to deal
//   - Required message keys
//   - Dealability: the configured seed (or seed 0) deals a table that
//     conserves every card and offers at least one legal action
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeGameConfig(filePath, data)
	if err != nil {
		result.fail("Invalid syntax: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	if config.Rows < engine.MinRows || config.Rows > engine.MaxRows {
		result.fail("rows must be between %d and %d, got %d", engine.MinRows, engine.MaxRows, config.Rows)
	}
	if config.Suits < engine.MinSuits || config.Suits > engine.MaxSuits {
		result.fail("suits must be between %d and %d, got %d", engine.MinSuits, engine.MaxSuits, config.Suits)
	}
	need := config.Rows * (config.Rows + 1) / 2
	if config.Suits > 0 && need > config.CardCount() {
		result.fail("%d rows need %d cards but %d suits only hold %d", config.Rows, need, config.Suits, config.CardCount())
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		result.fail("Missing required message: welcome")
	}
	if config.Messages.Victory == "" {
		result.fail("Missing required message: victory")
	}

	// Deal check only makes sense for a config that passed the field checks
	if result.Valid {
		deal := validateDeal(config)
		if !deal.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, deal.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Layout: %d columns, %d suits", config.Rows, config.Suits))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Cards: %d (%d dealt, %d in the deck)", config.CardCount(), need, config.CardCount()-need))
		if config.Seed != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Fixed seed: %d", *config.Seed))
		}
		if config.Messages.Illegal == "" {
			result.Errors = append(result.Errors, "✓ No illegal-move message, a default is used")
		}
	}

	return result
}

// validateDeal deals the config and checks the opening table.
func validateDeal(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	var seed int64
	if config.Seed != nil {
		seed = *config.Seed
	}

	game, err := engine.NewGame(config, seed)
	if err != nil {
		result.fail("Deal failed: %v", err)
		return result
	}

	state := game.State()
	if err := state.Validate(config.Suits); err != nil {
		result.fail("Deal check failed: %v", err)
		return result
	}

	actions := game.LegalActions()
	if len(actions) == 0 {
		result.fail("Deal check failed: seed %d has no legal opening action", seed)
		return result
	}

	aces := 0
	for _, stack := range game.Percept().Stacks {
		for _, c := range stack {
			if c != nil && c.Rank == cards.Ace {
				aces++
			}
		}
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Deal (seed %d): %d legal actions, %d aces showing", seed, len(actions), aces))
	return result
}

// configFiles lists the JSON and YAML files of dir in name order.
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// main validates every config of the directory given as the first argument,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := configFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
