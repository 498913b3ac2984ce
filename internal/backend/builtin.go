package backend

// 内置后端描述：None 与 EmbeddedNamedResource 只能读取，其余文件系统后端可读写。
func init() {
	MustRegister(Descriptor{
		Kind:        None,
		Name:        "none",
		Description: "Plain relative path, no backing root",
		ReadOnly:    true,
		Storage:     StorageNone,
	})
	MustRegister(Descriptor{
		Kind:        GameRoot,
		Name:        "game-root",
		Aliases:     []string{"game", "gamedata"},
		Description: "Application data root",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        BundledReadOnly,
		Name:        "bundled",
		Aliases:     []string{"streaming-assets", "bundled-readonly"},
		Description: "Files shipped next to the application",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        PersistentWritable,
		Name:        "persistent",
		Aliases:     []string{"persistent-data", "persistent-writable"},
		Description: "Per-user writable data directory",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        TemporaryCache,
		Name:        "temporary-cache",
		Aliases:     []string{"cache", "temp"},
		Description: "Per-user cache directory",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        EmbeddedNamedResource,
		Name:        "resource",
		Aliases:     []string{"resources", "embedded"},
		Description: "Named resource registry, looked up without extension",
		ReadOnly:    true,
		Storage:     StorageResource,
	})
	MustRegister(Descriptor{
		Kind:        ConsoleLog,
		Name:        "console-log",
		Aliases:     []string{"log"},
		Description: "Directory of the console log",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        AbsoluteURL,
		Name:        "absolute-url",
		Aliases:     []string{"url"},
		Description: "Absolute URL the application was started from",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
	MustRegister(Descriptor{
		Kind:        Custom,
		Name:        "custom",
		Description: "Caller supplied root",
		Storage:     StorageFilesystem,
		Rooted:      true,
	})
}
