package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Emit a 3D projection of all chunks as JSON",
	Long: `Reduces every chunk embedding to three dimensions with PCA and prints
the points as JSON, each carrying its cluster assignment. Intended for
feeding visualisation tools.`,
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

type projectedPointJSON struct {
	ChunkID     string  `json:"chunk_id"`
	DocumentID  string  `json:"document_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	ClusterID   int     `json:"cluster_id"`
	ClusterName string  `json:"cluster_name"`
}

func runProject(cmd *cobra.Command, _ []string) error {
	if projectionService == nil {
		return errors.New("projection service not configured")
	}

	points, err := projectionService.Project(cmd.Context())
	if err != nil {
		return fmt.Errorf("projecting chunks: %w", err)
	}

	out := make([]projectedPointJSON, len(points))
	for i, p := range points {
		out[i] = projectedPointJSON{
			ChunkID:     p.ChunkID,
			DocumentID:  p.DocumentID,
			X:           p.X,
			Y:           p.Y,
			Z:           p.Z,
			ClusterID:   p.ClusterID,
			ClusterName: p.ClusterName,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding projection: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
