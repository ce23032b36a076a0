package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Graph is an engine job graph: node id → node definition. Nodes are kept
// as loose maps so unknown fields round-trip to the engine untouched.
type Graph map[string]map[string]interface{}

// Template filenames expected under the workflow directory.
const (
	ImageTemplateFile = "imagemaker.json"
	VideoTemplateFile = "video.json"
)

// Node ids inside the shipped workflow templates.
const (
	imagePositiveNode = "6"
	imageNegativeNode = "38"
	imageSeedNode     = "3"
	imageSaveNode     = "9"

	videoPositiveNode = "3"
	videoNegativeNode = "4"
	videoInputNode    = "13"
)

// ImageFilenamePrefix is the save-node prefix for image jobs; it determines
// the subfolder the engine writes outputs into.
const ImageFilenamePrefix = "image_maker_app/generated_"

// SaveNodeID is the graph node whose outputs carry the produced artifacts.
const SaveNodeID = "9"

// LoadTemplate reads a workflow template from the workflow directory.
func LoadTemplate(dir, name string) (Graph, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow template %s: %w", name, err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse workflow template %s: %w", name, err)
	}
	return g, nil
}

// ImageJobInputs are the substitutions applied to the image template.
type ImageJobInputs struct {
	Prompt         string
	NegativePrompt string
	Seed           int64
}

// PrepareImageGraph clones the template and substitutes prompt, negative
// prompt, seed, and the filename prefix by node id.
func PrepareImageGraph(template Graph, in ImageJobInputs) (Graph, error) {
	g, err := cloneGraph(template)
	if err != nil {
		return nil, err
	}

	if err := setInput(g, imagePositiveNode, "text", in.Prompt); err != nil {
		return nil, err
	}
	if err := setInput(g, imageNegativeNode, "text", in.NegativePrompt); err != nil {
		return nil, err
	}
	if err := setInput(g, imageSeedNode, "seed", in.Seed); err != nil {
		return nil, err
	}
	if err := setInput(g, imageSaveNode, "filename_prefix", ImageFilenamePrefix); err != nil {
		return nil, err
	}
	return g, nil
}

// VideoJobInputs are the substitutions applied to the video template.
// InputImage must be the engine-assigned staged input filename.
type VideoJobInputs struct {
	Prompt         string
	NegativePrompt string
	InputImage     string
}

// PrepareVideoGraph clones the template and substitutes prompts and the
// staged input image by node id.
func PrepareVideoGraph(template Graph, in VideoJobInputs) (Graph, error) {
	g, err := cloneGraph(template)
	if err != nil {
		return nil, err
	}

	if err := setInput(g, videoPositiveNode, "text", in.Prompt); err != nil {
		return nil, err
	}
	if err := setInput(g, videoNegativeNode, "text", in.NegativePrompt); err != nil {
		return nil, err
	}
	if err := setInput(g, videoInputNode, "image", in.InputImage); err != nil {
		return nil, err
	}
	return g, nil
}

// cloneGraph deep-copies a graph through JSON so template mutations never
// leak between jobs.
func cloneGraph(template Graph) (Graph, error) {
	data, err := json.Marshal(template)
	if err != nil {
		return nil, fmt.Errorf("failed to clone workflow template: %w", err)
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to clone workflow template: %w", err)
	}
	return g, nil
}

func setInput(g Graph, nodeID, key string, value interface{}) error {
	node, ok := g[nodeID]
	if !ok {
		return fmt.Errorf("workflow template has no node %q", nodeID)
	}
	inputs, ok := node["inputs"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("workflow node %q has no inputs", nodeID)
	}
	inputs[key] = value
	return nil
}
