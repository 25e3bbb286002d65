package linker

// assignSplits implements spec.md §4.6 phase 2: each file is assigned to
// the bundle it is reachable from — the main split if any main entry
// reaches it, otherwise the first (in split-processing order) non-main
// split whose entry reaches it. ExpandedSplitsForcedLazy is then computed
// as each split's transitive closure of other splits a consumer in the
// main split must pre-load to reach it.
func (b *Bundler) assignSplits() {
	names := sortedKeys(b.opts.PartToMainFilesMap)
	// "main" (if present) is processed first so a file reachable from both
	// the main split and a lazy split is always attributed to main — the
	// eager entry point spec.md calls out, never the lazy one.
	names = mainFirst(names)

	for _, name := range names {
		split := &SplitInfo{
			Name:          name,
			IsMain:        name == "main",
			ExportSymbols: make(map[string]string),
		}
		b.splits[name] = split
		b.splitOrder = append(b.splitOrder, name)

		var visit func(fileName string)
		visited := map[string]bool{}
		visit = func(fileName string) {
			if visited[fileName] {
				return
			}
			visited[fileName] = true
			sf, ok := b.cache.Get(fileName)
			if !ok {
				return
			}
			if sf.Split == nil {
				sf.Split = split
				split.Files = append(split.Files, sf)
			}
			for _, req := range sf.Requires {
				if resolved, ok := b.host.ResolveRequire(req, fileName); ok {
					visit(resolved)
				} else {
					visit(req)
				}
			}
		}
		for _, entry := range b.opts.PartToMainFilesMap[name] {
			visit(entry)
		}
	}

	b.computeForcedLazySplits()
}

// computeForcedLazySplits fills in each split's ExpandedSplitsForcedLazy:
// for every lazy require reachable from a split's own files, the split
// owning the target file must be pre-loaded before that lazy require
// resolves, transitively.
func (b *Bundler) computeForcedLazySplits() {
	for _, name := range b.splitOrder {
		split := b.splits[name]
		seen := map[string]bool{name: true}
		var collect func(sf *SourceFile)
		collect = func(sf *SourceFile) {
			for _, lazy := range sf.LazyRequires {
				resolved, ok := b.host.ResolveRequire(lazy, sf.Name)
				if !ok {
					resolved = lazy
				}
				target, ok := b.cache.Get(resolved)
				if !ok || target.Split == nil || seen[target.Split.Name] {
					continue
				}
				seen[target.Split.Name] = true
				// A target reached only through an import() from another
				// split must still carry its own loader header when emitted,
				// even if it never forces any preload of its own.
				target.Split.IsLazyLoaded = true
				split.ExpandedSplitsForcedLazy = append(split.ExpandedSplitsForcedLazy, target.Split.Name)
				for _, f := range target.Split.Files {
					collect(f)
				}
			}
		}
		for _, f := range split.Files {
			collect(f)
		}
	}
}

func mainFirst(names []string) []string {
	out := make([]string, 0, len(names))
	rest := make([]string, 0, len(names))
	for _, n := range names {
		if n == "main" {
			out = append(out, n)
		} else {
			rest = append(rest, n)
		}
	}
	return append(out, rest...)
}
