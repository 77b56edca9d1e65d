package gen

import (
	"go/ast"
	"go/types"
	"path"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

const (
	directive = "//rowconsumer:generate"
	tagName   = "rowconsumer"
)

type SingleFileVisitor struct {
	file *FileVisitor
}

func (spv *SingleFileVisitor) Get() *File {
	typs := make([]Type, 0, len(spv.file.types))
	for _, typ := range spv.file.types {
		typs = append(typs, Type{
			Name:      typ.name,
			Struct:    typ.isStruct,
			Generic:   typ.generic,
			Directive: typ.directive,
			Fields:    typ.fields,
			Unnamed:   typ.unnamed,
		})
	}
	return &File{
		Package: spv.file.Package,
		Imports: spv.file.Imports,
		Types:   typs,
	}
}

var _ ast.Visitor = &SingleFileVisitor{}

func (spv *SingleFileVisitor) Visit(node ast.Node) ast.Visitor {
	fn, ok := node.(*ast.File)
	if !ok {
		// 不是我们要的文件节点
		return spv
	}

	fv := &FileVisitor{
		// 用对象保存go文件包名
		Package: fn.Name.String(),
	}
	spv.file = fv
	return fv
}

type FileVisitor struct {
	Package string
	Imports []Import
	types   []*TypeVisitor

	// 当前 type 声明组上的注释, 如 //rowconsumer:generate
	doc *ast.CommentGroup
}

var _ ast.Visitor = &FileVisitor{}

func (fv *FileVisitor) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.GenDecl:
		fv.doc = n.Doc
	case *ast.TypeSpec:
		v := &TypeVisitor{
			name:      n.Name.String(),
			generic:   n.TypeParams != nil && len(n.TypeParams.List) > 0,
			directive: hasDirective(n.Doc) || hasDirective(fv.doc),
		}
		fv.types = append(fv.types, v)
		return v
	case *ast.ImportSpec:
		fv.Imports = append(fv.Imports, newImport(n))
	case *ast.FuncDecl:
		// 函数体里的类型声明不处理
		return nil
	}
	return fv
}

type TypeVisitor struct {
	name      string
	isStruct  bool
	generic   bool
	directive bool
	fields    []Field
	// 匿名(嵌入)字段的下标
	unnamed []int
}

var _ ast.Visitor = &TypeVisitor{}

func (tv *TypeVisitor) Visit(node ast.Node) ast.Visitor {
	st, ok := node.(*ast.StructType)
	if !ok {
		// 类型名, 类型参数, 或者不是结构体, 如 type Status int
		return nil
	}
	tv.isStruct = true
	for i, f := range st.Fields.List {
		if len(f.Names) == 0 {
			tv.unnamed = append(tv.unnamed, i)
			continue
		}
		if skipField(f) {
			continue
		}
		typ := types.ExprString(f.Type)
		for _, name := range f.Names {
			if !name.IsExported() {
				continue
			}
			tv.fields = append(tv.fields, Field{
				Name: name.String(),
				Type: typ,
				pkgs: selectorPackages(f.Type),
			})
		}
	}
	// 嵌套的结构体字段不再往下走
	return nil
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, directive) {
			return true
		}
	}
	return false
}

func skipField(f *ast.Field) bool {
	if f.Tag == nil {
		return false
	}
	tag, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return false
	}
	return reflect.StructTag(tag).Get(tagName) == "-"
}

// selectorPackages 找出类型表达式里引用的包名, 如 uuid.UUID 中的 uuid
func selectorPackages(expr ast.Expr) []string {
	var pkgs []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if x, ok := sel.X.(*ast.Ident); ok {
			pkgs = append(pkgs, x.Name)
		}
		return false
	})
	return pkgs
}

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

func newImport(n *ast.ImportSpec) Import {
	p, _ := strconv.Unquote(n.Path.Value)
	imp := Import{Path: p}
	if n.Name != nil && n.Name.String() != "" {
		// 处理导入包有别名的情况, 如 a "import/bbb"
		imp.Alias = n.Name.String()
		imp.Name = imp.Alias
		return imp
	}
	name := path.Base(p)
	if versionSuffix.MatchString(name) {
		name = path.Base(path.Dir(p))
	}
	// gopkg.in/yaml.v3 这种
	if idx := strings.Index(name, ".v"); idx > 0 {
		name = name[:idx]
	}
	imp.Name = strings.ReplaceAll(name, "-", "")
	return imp
}

type File struct {
	Package string
	Imports []Import
	Types   []Type
}

type Import struct {
	Name  string
	Alias string
	Path  string
}

func (i Import) String() string {
	if i.Alias != "" {
		return i.Alias + " " + strconv.Quote(i.Path)
	}
	return strconv.Quote(i.Path)
}

type Type struct {
	Name      string
	Struct    bool
	Generic   bool
	Directive bool
	Fields    []Field
	Unnamed   []int
}

type Field struct {
	Name string
	Type string

	pkgs []string
}
