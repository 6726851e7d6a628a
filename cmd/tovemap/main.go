// Tovemap CLI - maps a serialized declaration graph to JVM descriptors,
// generic signatures and dispatch instructions.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/manifest"
	"github.com/tovelang/tove/mapcache"
	"github.com/tovelang/tove/mapper"
	"github.com/tovelang/tove/wire"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tovemap")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	projectDir := flag.String("C", ".", "Project directory (where tove.toml is searched from)")
	noCache := flag.Bool("no-cache", false, "Skip writing results to the map cache")
	lenientFlag := flag.Bool("lenient", false, "Map unresolved types to the error sentinel instead of failing")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tovemap [options] <graph.cbor>\n\n")
		fmt.Fprintf(os.Stderr, "Maps every declaration in the graph fixture and prints the results.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tovemap build/graph.cbor            # Map using ./tove.toml settings\n")
		fmt.Fprintf(os.Stderr, "  tovemap -C ./app build/graph.cbor   # Search for tove.toml under ./app\n")
		fmt.Fprintf(os.Stderr, "  tovemap -lenient build/graph.cbor   # Tolerate unresolved types\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	graphPath := flag.Arg(0)

	if err := run(graphPath, *projectDir, *noCache, *lenientFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(graphPath, projectDir string, noCache, lenientFlag bool) error {
	man, err := manifest.FindAndLoad(projectDir)
	if err != nil {
		return err
	}
	if man == nil {
		log.Info("no tove.toml found, using defaults")
		man = &manifest.Manifest{Dir: projectDir}
	}

	known := jvm.DefaultKnownTypes()
	if path := man.KnownTypesPath(); path != "" {
		known, err = jvm.LoadKnownTypes(path)
		if err != nil {
			return err
		}
		log.Infof("loaded known types from %s", path)
	}

	m := mapper.New(known, man.Lenient() || lenientFlag, nil)

	data, err := os.ReadFile(graphPath)
	if err != nil {
		return fmt.Errorf("reading graph: %w", err)
	}
	g, err := wire.UnmarshalGraph(data)
	if err != nil {
		return err
	}
	loaded, err := g.Load()
	if err != nil {
		return err
	}
	log.Infof("loaded %d classes, %d functions", len(loaded.Classes), len(loaded.Functions))

	var store *mapcache.Store
	var snapshot string
	if man.Cache.Enabled && !noCache {
		store, err = mapcache.Open(man.CachePath())
		if err != nil {
			return err
		}
		defer store.Close()
		snapshot, err = store.NewSnapshot(filepath.Base(graphPath))
		if err != nil {
			return err
		}
		log.Infof("caching under snapshot %s", snapshot)
	}

	if err := dumpClasses(m, loaded); err != nil {
		return err
	}
	return dumpFunctions(m, loaded, store, snapshot)
}

func dumpClasses(m *mapper.Mapper, loaded *wire.Loaded) error {
	for _, id := range sortedIDs(loaded.Classes) {
		cls := loaded.Classes[id]
		t, err := m.MapClass(cls)
		if err != nil {
			return fmt.Errorf("class %s: %w", cls.Name, err)
		}
		fmt.Printf("class %s %s\n", cls.Name, t.Descriptor())
	}
	return nil
}

func dumpFunctions(m *mapper.Mapper, loaded *wire.Loaded, store *mapcache.Store, snapshot string) error {
	ctx := mapper.CallContext{InsideModule: true}
	for _, id := range sortedIDs(loaded.Functions) {
		f := loaded.Functions[id]
		cm, err := m.MapToCallableMethod(f, false, ctx)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}

		key := cm.Owner.InternalName() + "." + cm.Sig.Name
		fmt.Printf("method %s%s invoke=%s owner=%s\n",
			key, cm.Sig.Descriptor(), cm.Invoke, cm.Owner.Descriptor())
		if cm.Sig.Generic != "" {
			fmt.Printf("  signature %s\n", cm.Sig.Generic)
		}

		if f.HasDefaults() {
			def, err := m.MapDefaultMethod(f, mapper.OwnerImplementation, ctx.InsideModule)
			if err != nil {
				return fmt.Errorf("function %s: %w", f.Name, err)
			}
			fmt.Printf("  default %s%s\n", def.Name, def.Descriptor())
		}

		if store != nil {
			if err := store.Put(snapshot, mapcache.KindDescriptor, key, cm.Sig.Descriptor()); err != nil {
				return err
			}
			if cm.Sig.Generic != "" {
				if err := store.Put(snapshot, mapcache.KindSignature, key, cm.Sig.Generic); err != nil {
					return err
				}
			}
			if err := store.Put(snapshot, mapcache.KindDispatch, key, cm.Invoke.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedIDs[T any](m map[uint32]T) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
