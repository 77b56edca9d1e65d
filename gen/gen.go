package gen

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"sort"
	"strings"
	"text/template"
)

const consumerImport = "github.com/startdusk/rowconsumer/consumer"

var (
	ErrUnsupportedShape = errors.New("consumergen: 只支持具名字段的结构体")
	ErrUnnamedField     = errors.New("consumergen: 不支持匿名字段")
	ErrNoFields         = errors.New("consumergen: 结构体没有可映射的字段")
	ErrTypeNotFound     = errors.New("consumergen: 找不到类型")
	ErrNothingToGen     = errors.New("consumergen: 没有需要生成的类型")
)

//go:embed tpl.gohtml
var genConsumer string

var tpl = template.Must(template.New("gen-consumer").Parse(genConsumer))

type Data struct {
	Package    string
	Consumer   string
	StdImports []Import
	Imports    []Import
	Types      []Type
}

// Parse 解析 srcFile 中的类型声明
func Parse(srcFile string) (*File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, srcFile, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	v := &SingleFileVisitor{}
	ast.Walk(v, f)
	return v.Get(), nil
}

// Gen 为 srcFile 中的结构体生成 ConsumeRow 方法
// types 为空时, 如果有类型标记了 //rowconsumer:generate 就只生成这些类型, 否则生成所有结构体
func Gen(w io.Writer, srcFile string, types ...string) error {
	file, err := Parse(srcFile)
	if err != nil {
		return err
	}
	return Generate(w, file, types...)
}

func Generate(w io.Writer, file *File, types ...string) error {
	selected, err := Select(file, types...)
	if err != nil {
		return err
	}

	std, imports := splitStd(usedImports(file.Imports, selected))
	buf := &bytes.Buffer{}
	err = tpl.Execute(buf, Data{
		Package:    file.Package,
		Consumer:   consumerImport,
		StdImports: std,
		Imports:    imports,
		Types:      selected,
	})
	if err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// Select 选出需要生成的类型, 并检查它们的形状
// 位置绑定要求类型是具名字段的结构体, 其他形状在生成阶段直接拒绝
func Select(file *File, names ...string) ([]Type, error) {
	var candidates []Type
	switch {
	case len(names) > 0:
		byName := make(map[string]Type, len(file.Types))
		for _, typ := range file.Types {
			byName[typ.Name] = typ
		}
		for _, name := range names {
			typ, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
			}
			candidates = append(candidates, typ)
		}
	case hasDirectives(file):
		for _, typ := range file.Types {
			if typ.Directive {
				candidates = append(candidates, typ)
			}
		}
	default:
		for _, typ := range file.Types {
			if typ.Struct {
				candidates = append(candidates, typ)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNothingToGen
	}
	for _, typ := range candidates {
		if err := check(typ); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

func check(typ Type) error {
	switch {
	case !typ.Struct, typ.Generic:
		return fmt.Errorf("%w: %s", ErrUnsupportedShape, typ.Name)
	case len(typ.Unnamed) > 0:
		return fmt.Errorf("%w: %s 的第 %d 个字段", ErrUnnamedField, typ.Name, typ.Unnamed[0])
	case len(typ.Fields) == 0:
		return fmt.Errorf("%w: %s", ErrNoFields, typ.Name)
	}
	return nil
}

func hasDirectives(file *File) bool {
	for _, typ := range file.Types {
		if typ.Directive {
			return true
		}
	}
	return false
}

// usedImports 只保留字段类型用到的包, 否则生成的代码编译不过
func usedImports(imports []Import, typs []Type) []Import {
	used := make(map[string]struct{})
	for _, typ := range typs {
		for _, f := range typ.Fields {
			for _, p := range f.pkgs {
				used[p] = struct{}{}
			}
		}
	}
	res := make([]Import, 0, len(used))
	for _, imp := range imports {
		if imp.Path == consumerImport {
			continue
		}
		if _, ok := used[imp.Name]; ok {
			res = append(res, imp)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Path < res[j].Path
	})
	return res
}

// splitStd 把标准库和第三方库分成两组
func splitStd(imports []Import) (std []Import, others []Import) {
	for _, imp := range imports {
		first, _, _ := strings.Cut(imp.Path, "/")
		if strings.Contains(first, ".") {
			others = append(others, imp)
		} else {
			std = append(std, imp)
		}
	}
	return std, others
}
