package bundle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
)

// specTemplate renders the declaration as a PyInstaller spec file. The paths
// it contains are relative to the project root, which is also the working
// directory the packager runs in.
var specTemplate = template.Must(template.New("spec").Funcs(template.FuncMap{
	"py": pyString,
}).Parse(`# -*- mode: python ; coding: utf-8 -*-
# Generated by mcbuild, do not edit by hand.

block_cipher = None

a = Analysis(
    [{{py .Entry}}],
    pathex=[],
    binaries=[
{{- range .Binaries}}
        ({{py .Source}}, {{py .Dest}}),
{{- end}}
    ],
    datas=[
{{- range .Datas}}
        ({{py .Source}}, {{py .Dest}}),
{{- end}}
    ],
    hiddenimports=[
{{- range .HiddenImports}}
        {{py .}},
{{- end}}
    ],
    hookspath=[],
    runtime_hooks=[],
    excludes=[],
    cipher=block_cipher,
    noarchive=False,
)
pyz = PYZ(a.pure, a.zipped_data, cipher=block_cipher)
exe = EXE(
    pyz,
    a.scripts,
{{- if .OneFile}}
    a.binaries,
    a.zipfiles,
    a.datas,
{{- end}}
    [],
    name={{py .Name}},
    debug=False,
    bootloader_ignore_signals=False,
    strip=False,
    upx=True,
    upx_exclude=[],
{{- if .OneFile}}
    runtime_tmpdir=None,
{{- end}}
    console={{if .Console}}True{{else}}False{{end}},
{{- if .Icon}}
    icon={{py .Icon}},
{{- end}}
)
{{- if not .OneFile}}
coll = COLLECT(
    exe,
    a.binaries,
    a.zipfiles,
    a.datas,
    strip=False,
    upx=True,
    upx_exclude=[],
    name={{py .Name}},
)
{{- end}}
`))

func pyString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// RenderSpec returns the PyInstaller spec file contents for the declaration.
func (d *Declaration) RenderSpec() ([]byte, error) {
	buffer := bytes.Buffer{}
	err := specTemplate.Execute(&buffer, d)
	if err != nil {
		return nil, eris.Wrap(err, "failed to render the packager spec")
	}

	return buffer.Bytes(), nil
}

// WriteSpec renders the declaration and writes it to the given path, creating
// parent directories as needed.
func (d *Declaration) WriteSpec(path string) error {
	content, err := d.RenderSpec()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0770)
	if err != nil {
		return eris.Wrapf(err, "failed to create directory %s", filepath.Dir(path))
	}

	err = os.WriteFile(path, content, 0660)
	if err != nil {
		return eris.Wrapf(err, "failed to write %s", path)
	}

	return nil
}
