// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"io"
	"os"
)

// FileProcessor handles one input. filename is the operand as given, or
// "-" for stdin; index and total are 0 when reading stdin.
type FileProcessor func(r io.Reader, filename string, index, total int) error

// ProcessFilesOrStdin runs processor over each operand in args, or over
// stdin when args is empty. An operand of "-" also reads stdin. Relative
// paths resolve against workDir.
func ProcessFilesOrStdin(
	args []string,
	stdin io.Reader,
	workDir string,
	cmdName string,
	processor FileProcessor,
) error {
	if len(args) == 0 {
		return processor(stdin, "-", 0, 0)
	}

	total := len(args)
	for i, file := range args {
		if file == "-" {
			if err := processor(stdin, file, i, total); err != nil {
				return err
			}
			continue
		}
		if err := processFile(resolvePath(workDir, file), cmdName, func(f *os.File) error {
			return processor(f, file, i, total)
		}); err != nil {
			return err
		}
	}
	return nil
}

// processFile opens path for processor and reports a close failure when
// processing itself succeeded.
func processFile(path, cmdName string, processor func(f *os.File) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return wrapError(cmdName, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = wrapError(cmdName, closeErr)
		}
	}()

	return processor(f)
}
