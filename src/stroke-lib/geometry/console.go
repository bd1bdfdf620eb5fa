package geometry

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Browser consoles print logged points as `{x: 1006, y: 429}`.
var _consolePointRe = regexp.MustCompile(`\{\s*x:\s*(-?[0-9.]+),\s*y:\s*(-?[0-9.]+)\s*\}`)

// ParseConsoleLog reads a browser console dump and returns every logged point as a stroke.
// Lines that do not contain a point are skipped.
func ParseConsoleLog(r io.Reader) (Stroke, error) {
	var points []Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		m := _consolePointRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		x, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Stroke{}, fmt.Errorf("line %d: parsing x: %w", line, err)
		}
		y, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Stroke{}, fmt.Errorf("line %d: parsing y: %w", line, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return Stroke{}, fmt.Errorf("reading console log: %w", err)
	}
	return Stroke{points: points}, nil
}
