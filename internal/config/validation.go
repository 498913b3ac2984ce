package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/document"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if err := c.validateGlobal(); err != nil {
		return err
	}

	kinds := map[string]string{}
	for i := range c.Paths {
		p := &c.Paths[i]
		if p.Name == "" {
			return newFieldError("Path[].Name", "不能为空")
		}
		if _, exists := kinds[p.Name]; exists {
			return newFieldError(pathField(p.Name, "Name"), "重复")
		}
		kinds[p.Name] = "path"
		if _, err := backend.ParseKind(p.Backend); err != nil {
			return newFieldError(pathField(p.Name, "Backend"), err.Error())
		}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Name == "" {
			return newFieldError("Table[].Name", "不能为空")
		}
		if _, exists := kinds[t.Name]; exists {
			return newFieldError(tableField(t.Name, "Name"), "与已有路径或平台表重名")
		}
		kinds[t.Name] = "table"
	}

	for _, p := range c.Paths {
		if p.Parent == "" {
			continue
		}
		if _, ok := kinds[p.Parent]; !ok {
			return newFieldError(pathField(p.Name, "Parent"), fmt.Sprintf("未定义: %s", p.Parent))
		}
	}
	for _, t := range c.Tables {
		if len(t.Entries) == 0 {
			return newFieldError(tableField(t.Name, "Entry"), "至少需要一个条目")
		}
		for _, entry := range t.Entries {
			if kinds[entry.Path] != "path" {
				return newFieldError(tableField(t.Name, "Entry.Path"), fmt.Sprintf("必须引用已定义的 Path: %s", entry.Path))
			}
			if len(entry.PlatformList()) == 0 {
				return newFieldError(tableField(t.Name, "Entry.Platforms"), "不能为空")
			}
		}
	}

	if cycle := c.findCycle(); len(cycle) > 0 {
		return newFieldError("Path", "存在循环引用: "+strings.Join(cycle, " -> "))
	}

	seenDocs := map[string]struct{}{}
	for i := range c.Documents {
		doc := &c.Documents[i]
		if doc.Name == "" {
			return newFieldError("Document[].Name", "不能为空")
		}
		if _, exists := seenDocs[doc.Name]; exists {
			return newFieldError(documentField(doc.Name, "Name"), "重复")
		}
		seenDocs[doc.Name] = struct{}{}

		if doc.Path == "" {
			return newFieldError(documentField(doc.Name, "Path"), "不能为空")
		}
		if _, ok := kinds[doc.Path]; !ok {
			return newFieldError(documentField(doc.Name, "Path"), fmt.Sprintf("未定义: %s", doc.Path))
		}
		if _, err := doc.Policy(); err != nil {
			return newFieldError(documentField(doc.Name, "UseFile"), err.Error())
		}
		if _, err := doc.Severity(); err != nil {
			return newFieldError(documentField(doc.Name, "NotFound"), err.Error())
		}
	}

	return nil
}

func (c *Config) validateGlobal() error {
	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", err.Error())
	}
	if _, err := document.ParseContext(g.RuntimeContext); err != nil {
		return newFieldError("Global.RuntimeContext", "仅支持 build/development/editor")
	}
	if g.ReadTimeout.DurationValue() < 0 {
		return newFieldError("Global.ReadTimeout", "不能为负数")
	}
	return nil
}

// findCycle 沿父级与表条目做深度优先遍历，返回第一条环路（首尾同名）。
func (c *Config) findCycle() []string {
	edges := map[string][]string{}
	for _, p := range c.Paths {
		if p.Parent != "" {
			edges[p.Name] = append(edges[p.Name], p.Parent)
		}
	}
	for _, t := range c.Tables {
		for _, entry := range t.Entries {
			edges[t.Name] = append(edges[t.Name], entry.Path)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var stack []string
	var walk func(node string) []string
	walk = func(node string) []string {
		switch state[node] {
		case visiting:
			for i, name := range stack {
				if name == node {
					return append(append([]string{}, stack[i:]...), node)
				}
			}
			return []string{node, node}
		case done:
			return nil
		}
		state[node] = visiting
		stack = append(stack, node)
		for _, next := range edges[node] {
			if cycle := walk(next); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	names := make([]string, 0, len(c.Paths)+len(c.Tables))
	for _, p := range c.Paths {
		names = append(names, p.Name)
	}
	for _, t := range c.Tables {
		names = append(names, t.Name)
	}
	for _, name := range names {
		if cycle := walk(name); cycle != nil {
			return cycle
		}
	}
	return nil
}
