// compiler.go drives the external GLSL front-end that lowers shader source to
// SPIR-V. The front-end is invoked once per program with the source on stdin,
// the stage selected by flag, Vulkan semantics enabled and the built-in
// resource limits supplied through a generated configuration file.
package shader

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rikool050/ogre-next/common"
)

// compilerBin is the name of the GLSL front-end executable looked up on PATH.
const compilerBin = "glslangValidator"

// compiler wraps one external front-end executable.
type compiler struct {
	bin string
}

// newCompiler creates a compiler using the default front-end binary.
func newCompiler() *compiler {
	return &compiler{bin: compilerBin}
}

// available reports whether the front-end executable can be found.
//
// Returns:
//   - bool: true when the binary resolves on PATH
func (c *compiler) available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

// compile lowers GLSL source to a SPIR-V word sequence. Preprocessor defines
// are passed through to the front-end in sorted order. The front-end's
// combined diagnostic output becomes the error text when any of its stages
// (parse, link, lowering) fails; a missing executable is reported as a fatal
// APIError rather than a compile diagnostic.
//
// Parameters:
//   - stage: the pipeline stage to compile for
//   - source: the GLSL source text
//   - defines: preprocessor macro definitions, values may be ""
//
// Returns:
//   - []uint32: the compiled SPIR-V words
//   - error: the front-end's diagnostics on failure, otherwise nil
func (c *compiler) compile(stage Stage, source string, defines map[string]string) ([]uint32, error) {
	bin, err := exec.LookPath(c.bin)
	if err != nil {
		return nil, &APIError{Op: c.bin, Message: "executable not found on PATH"}
	}

	dir, err := os.MkdirTemp("", "shader-compile-")
	if err != nil {
		return nil, fmt.Errorf("creating compile work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	confPath := filepath.Join(dir, "limits.conf")
	if err := os.WriteFile(confPath, []byte(limitsConfig()), 0o644); err != nil {
		return nil, fmt.Errorf("writing limits config: %w", err)
	}
	outPath := filepath.Join(dir, "shader.spv")

	args := []string{"--stdin", "-V", "-S", stage.toolName(), "-o", outPath}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if value := defines[name]; value != "" {
			args = append(args, "-D"+name+"="+value)
		} else {
			args = append(args, "-D"+name)
		}
	}
	args = append(args, confPath)

	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(source)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s", strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading compiled output: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("front-end produced 0-sized SPIR-V")
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("front-end produced %d bytes, not a word multiple", len(data))
	}

	return common.BytesToWords(data), nil
}
