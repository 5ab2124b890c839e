package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// defaultOutputPath returns output/<scene name>/render_<timestamp>.png
func defaultOutputPath(scenePath string, now time.Time) string {
	base := filepath.Base(scenePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		name = "scene"
	}
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// s3Key joins the optional key prefix and the image file name
func s3Key(prefix, imagePath string) string {
	name := filepath.Base(imagePath)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
