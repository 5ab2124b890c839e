package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-mesh-pathtracer/pkg/loaders"
)

// List the scene files found in a directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	dir := ctx.String("dir")
	scenes, err := loaders.DiscoverScenes(dir)
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		logger.Noticef("no scene files found in %s", dir)
		return nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "Scene", "Objects", "File", "Description"})
	for _, group := range loaders.GroupScenes(scenes) {
		for _, info := range group.Scenes {
			table.Append([]string{group.Name, info.Name, fmt.Sprintf("%d", info.Objects), info.FilePath, info.Description})
		}
	}
	table.Render()

	logger.Noticef("scenes in %s\n%s", dir, buf.String())
	return nil
}
