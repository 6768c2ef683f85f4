// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/plexgen/plexgen/pkg/htmlutil"
)

// ParseCoverageIndex extracts the total coverage percentage from an
// HTML coverage report index: the text of the element carrying the
// "pc_cov" class.
func ParseCoverageIndex(r io.Reader) (float64, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, err
	}

	var text string
	found := false
	errFound := fmt.Errorf("found")
	err = htmlutil.VisitHTML(doc, func(node *html.Node) error {
		if node.Type != html.ElementNode {
			return nil
		}
		class, ok := htmlutil.GetAttr(node, "", "class")
		if !ok {
			return nil
		}
		for _, name := range strings.Fields(class) {
			if name == "pc_cov" {
				text = nodeText(node)
				found = true
				return errFound
			}
		}
		return nil
	}, nil)
	if err != nil && !found {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("coverage report: no total percentage found")
	}

	val, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(text), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("coverage report: bad total percentage %q", text)
	}
	return val, nil
}

func nodeText(node *html.Node) string {
	var text strings.Builder
	_ = htmlutil.VisitHTML(node, func(n *html.Node) error {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		return nil
	}, nil)
	return text.String()
}

// failUnder converts the configured threshold to a percentage: either
// a bare number or a "95%" style string.
func (c *CoverConfig) failUnder() (float64, error) {
	str := strings.TrimSpace(c.FailUnder.String())
	if str == "" || str == "0" {
		return 0, nil
	}
	val, err := strconv.ParseFloat(strings.TrimSuffix(str, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("cover: bad fail_under %q", str)
	}
	return val, nil
}

// checkCover gates the environment on its coverage report: the total
// percentage must not fall below fail_under.
func (r *Runner) checkCover(ctx context.Context, cover *CoverConfig, envdir string) error {
	threshold, err := cover.failUnder()
	if err != nil {
		return err
	}
	if threshold == 0 {
		return nil
	}

	htmldir := cover.HTMLDir
	if htmldir == "" {
		htmldir = "htmlcov"
	}
	if !filepath.IsAbs(htmldir) {
		htmldir = filepath.Join(envdir, htmldir)
	}

	file, err := os.Open(filepath.Join(htmldir, "index.html"))
	if err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	defer file.Close()

	percent, err := ParseCoverageIndex(file)
	if err != nil {
		return err
	}

	dlog.Infof(ctx, "coverage total %.4g%% (fail_under %.4g%%)", percent, threshold)
	if percent < threshold {
		return fmt.Errorf("cover: total coverage %.4g%% is below fail_under %.4g%%", percent, threshold)
	}
	return nil
}
