// generate-test-file writes a large outline for exercising the editor and
// the storage backends
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
	"github.com/pstuifzand/tuo-notes/internal/storage"
)

var categories = []string{
	"Task", "Note", "Idea", "Bug", "Feature", "Enhancement",
	"Documentation", "Refactor", "Test", "Optimization",
	"Research", "Design", "Implementation", "Review",
}

var descriptions = []string{
	"Core functionality", "User interface", "Performance improvement",
	"Bug fix", "New capability", "API integration", "Data validation",
	"Error handling", "Caching layer", "Database schema", "Authentication",
	"Configuration", "Logging system", "Monitoring", "Security audit",
}

func main() {
	numNodes := flag.Int("nodes", 1000, "Number of nodes to generate")
	output := flag.String("output", "large_test.json", "Output file path, used without -store")
	depth := flag.Int("depth", 3, "Maximum nesting depth")
	storeDir := flag.String("store", "", "Save into the outline store in this directory")
	backend := flag.String("backend", "disk", "Store backend: disk or sqlite")
	title := flag.String("title", "Generated", "Outline title")
	flag.Parse()

	if *numNodes < 1 {
		fmt.Fprintf(os.Stderr, "nodes must be at least 1\n")
		os.Exit(1)
	}

	doc := &model.Document{Title: *title, Tree: generateTree(*numNodes, *depth)}
	if err := doc.Tree.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Generated an invalid tree: %v\n", err)
		os.Exit(1)
	}

	if *storeDir != "" {
		id, err := saveToStore(*storeDir, *backend, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save outline: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated outline with %d nodes\n", doc.Tree.Count())
		fmt.Printf("Saved as: %s (%s)\n", id, *backend)
		return
	}

	if err := storage.WriteFile(*output, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write file: %v\n", err)
		os.Exit(1)
	}
	info, err := os.Stat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated outline with %d nodes\n", doc.Tree.Count())
	fmt.Printf("Saved to: %s\n", *output)
	fmt.Printf("File size: %.2f MB\n", float64(info.Size())/(1024*1024))
}

func saveToStore(dir, backend string, doc *model.Document) (string, error) {
	files, err := storage.Open(storage.Options{Backend: backend, Dir: dir})
	if err != nil {
		return "", err
	}
	defer files.Close()

	meta, err := files.Save(context.Background(), "", doc)
	if err != nil {
		return "", err
	}
	return meta.ID, files.SetActive(context.Background(), meta.ID)
}

func generateTree(totalNodes, maxDepth int) model.Tree {
	var tree model.Tree
	remaining := totalNodes
	for remaining > 0 {
		tree = append(tree, generateNode(&remaining, totalNodes, "", 0, maxDepth))
	}
	return tree
}

func generateNode(remaining *int, total int, parentID string, depth, maxDepth int) *model.Node {
	index := total - *remaining
	*remaining--

	n := model.NewNode(fmt.Sprintf("gen-%d", index), nodeContent(index, depth))
	n.ParentID = parentID

	if depth < maxDepth && *remaining > 0 {
		count := childCount(*remaining, maxDepth-depth)
		for i := 0; i < count && *remaining > 0; i++ {
			n.Children = append(n.Children, generateNode(remaining, total, n.ID, depth+1, maxDepth))
		}
		if index%7 == 3 {
			n.SetExpanded(false)
		}
	}
	return n
}

func childCount(remaining, depthLeft int) int {
	if depthLeft == 1 {
		if remaining > 10 {
			return 5
		}
		return max(remaining/2, 1)
	}
	if remaining > 50 {
		return 3
	}
	return 2
}

// nodeContent makes top level nodes headings and marks every fifth category
// bold
func nodeContent(index, depth int) richtext.Doc {
	category := categories[index%len(categories)]
	rest := fmt.Sprintf(" #%d - %s", index, descriptions[index%len(descriptions)])
	if depth == 0 {
		return richtext.NewHeading(2, category+rest)
	}
	if index%5 == 0 {
		return richtext.NewDoc(richtext.BlockParagraph, nil,
			richtext.Text(category, richtext.Strong()),
			richtext.Text(rest))
	}
	return richtext.NewParagraph(category + rest)
}
