package model

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"
)

// FilePreview holds the head of a file for the inspector's detail panel
type FilePreview struct {
	Lines     []string // First lines of the file
	Truncated bool     // More lines exist beyond Lines
	Size      int64    // Size in bytes
	Binary    bool     // File does not look like text
	ErrorMsg  string   // Error message if file couldn't be read
}

// PreviewFile reads up to maxLines lines of name from fsys.
func PreviewFile(fsys fs.FS, name string, maxLines int) FilePreview {
	var result FilePreview

	info, err := fs.Stat(fsys, name)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not stat file: %v", err)
		return result
	}
	if info.IsDir() {
		result.ErrorMsg = "Is a directory"
		return result
	}
	result.Size = info.Size()

	file, err := fsys.Open(name)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Bundled JS is often a single huge line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) || strings.ContainsRune(line, 0) {
			result.Binary = true
			result.Lines = nil
			return result
		}
		if len(result.Lines) == maxLines {
			result.Truncated = true
			break
		}
		result.Lines = append(result.Lines, line)
	}

	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
	}
	return result
}
