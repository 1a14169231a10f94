package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/buildcache"
	"github.com/proskuryakov/rupc/internal/codegen/cil"
	"github.com/proskuryakov/rupc/internal/codegen/jvm"
	"github.com/proskuryakov/rupc/internal/diffutil"
	"github.com/proskuryakov/rupc/internal/manifest"
)

var (
	buildTarget  string
	buildDiff    string
	buildNoCache bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file|manifest.yaml>",
	Short: "Сгенерировать текст ассемблера (.il или .j) рядом с исходником",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildTarget, "target", "cil", "цель компиляции: cil или jvm")
	buildCmd.Flags().StringVar(&buildDiff, "diff", "", "сравнить результат с ранее сохранённым артефактом")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "не использовать кэш сборки")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := args[0]

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return runManifestBuild(path)
	}

	artifact, cacheNote, elapsed, err := buildOne(path, buildTarget)
	if err != nil {
		return err
	}

	outPath := artifactPath(path, buildTarget)
	if err := os.WriteFile(outPath, []byte(artifact), 0o644); err != nil {
		return fmt.Errorf("не удалось записать %s: %w", outPath, err)
	}

	fmt.Printf("%s (%s, %s)%s\n", outPath, humanize.Bytes(uint64(len(artifact))), elapsed, cacheNote)

	if buildDiff != "" {
		prev, err := os.ReadFile(buildDiff)
		if err != nil {
			return fmt.Errorf("не удалось прочитать %s: %w", buildDiff, err)
		}
		diff, err := diffutil.Unified(buildDiff, outPath, string(prev), artifact)
		if err != nil {
			return err
		}
		fmt.Print(diff)
	}
	return nil
}

func runManifestBuild(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	sources, err := m.ResolveSources(filepath.Dir(path))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("манифест %s не сопоставил ни одного файла", path)
	}

	outDir := m.Output
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("не удалось создать каталог %s: %w", outDir, err)
	}

	root := filepath.Dir(path)
	for _, rel := range sources {
		srcPath := filepath.Join(root, rel)
		artifact, cacheNote, elapsed, err := buildOne(srcPath, m.Target)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, artifactBaseName(rel, m.Target))
		if err := os.WriteFile(outPath, []byte(artifact), 0o644); err != nil {
			return fmt.Errorf("не удалось записать %s: %w", outPath, err)
		}
		fmt.Printf("%s (%s, %s)%s\n", outPath, humanize.Bytes(uint64(len(artifact))), elapsed, cacheNote)
	}
	return nil
}

// buildOne runs the full pipeline for one source file against target,
// consulting the build cache first unless --no-cache was given.
func buildOne(path, target string) (artifact, cacheNote, elapsed string, err error) {
	start := time.Now()

	result, rerr := analyzeFile(path)
	if rerr != nil {
		return "", "", "", rerr
	}

	source, rerr := os.ReadFile(path)
	if rerr != nil {
		return "", "", "", fmt.Errorf("не удалось прочитать файл %s: %w", path, rerr)
	}
	hash := buildcache.Hash(string(source))

	if !buildNoCache {
		if cache, cerr := openCache(); cerr == nil {
			if hit, ok := cache.Lookup(hash, target); ok {
				return hit.Text, fmt.Sprintf(" (попадание в кэш %s)", hit.ID), humanize.RelTime(start, time.Now(), "", ""), nil
			}
		}
	}

	text, gerr := generate(result.program, target)
	if gerr != nil {
		return "", "", "", gerr
	}

	elapsedDur := time.Since(start)
	if !buildNoCache {
		if cache, cerr := openCache(); cerr == nil {
			if _, serr := cache.Store(hash, target, text, elapsedDur); serr != nil {
				fmt.Fprintf(os.Stderr, "предупреждение: не удалось сохранить в кэш: %s\n", serr)
			}
		}
	}

	return text, "", humanize.RelTime(start, time.Now(), "", ""), nil
}

func generate(program *ast.StatementList, target string) (string, error) {
	switch target {
	case "cil":
		return cil.New(assemblyName(program)).Generate(program)
	case "jvm":
		return jvm.New(assemblyName(program)).Generate(program)
	default:
		return "", fmt.Errorf("неизвестная цель компиляции %q (ожидалось cil или jvm)", target)
	}
}

// assemblyName derives a CIL assembly / JVM class name from the
// program: главный's containing unit has no name of its own in this
// language, so a fixed name stands in for it.
func assemblyName(*ast.StatementList) string {
	return "rupc_prog"
}

func artifactPath(sourcePath, target string) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	if target == "jvm" {
		return base + ".j"
	}
	return base + ".il"
}

func artifactBaseName(rel, target string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if target == "jvm" {
		return base + ".j"
	}
	return base + ".il"
}

var cacheSingleton *buildcache.Cache

func openCache() (*buildcache.Cache, error) {
	if cacheSingleton != nil {
		return cacheSingleton, nil
	}
	c, err := buildcache.Open("rupc-cache.db")
	if err != nil {
		return nil, err
	}
	cacheSingleton = c
	return c, nil
}
