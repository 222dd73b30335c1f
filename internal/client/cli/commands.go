package cli

func (a *App) commands() []command {
	return []command{
		{name: "notes", aliases: []string{"l", "list"}, usage: "notes [-nb id] [-tag id] [-trash] [text]", run: a.listNotes},
		{name: "note", aliases: []string{"show"}, usage: "note <id>", minArgs: 1, run: a.showNote},
		{name: "addnote", usage: "addnote", run: a.addNote},
		{name: "editnote", usage: "editnote <id>", minArgs: 1, run: a.editNote},
		{name: "trash", usage: "trash <id>", minArgs: 1, run: a.trashNote},
		{name: "restore", usage: "restore <id>", minArgs: 1, run: a.restoreNote},
		{name: "rmnote", usage: "rmnote <id>", minArgs: 1, run: a.deleteNote},
		{name: "tag", usage: "tag <note id> <tag id>", minArgs: 2, run: a.tagNote},
		{name: "untag", usage: "untag <note id> <tag id>", minArgs: 2, run: a.untagNote},

		{name: "notebooks", usage: "notebooks", run: a.listNotebooks},
		{name: "addnotebook", usage: "addnotebook <name>", minArgs: 1, run: a.addNotebook},
		{name: "renamenotebook", usage: "renamenotebook <id> <name>", minArgs: 2, run: a.renameNotebook},
		{name: "rmnotebook", usage: "rmnotebook <id>", minArgs: 1, run: a.deleteNotebook},

		{name: "tags", usage: "tags", run: a.listTags},
		{name: "addtag", usage: "addtag <name>", minArgs: 1, run: a.addTag},
		{name: "renametag", usage: "renametag <id> <name>", minArgs: 2, run: a.renameTag},
		{name: "rmtag", usage: "rmtag <id>", minArgs: 1, run: a.deleteTag},

		{name: "attach", usage: "attach <note id> <path>", minArgs: 2, run: a.attach},
		{name: "attachments", usage: "attachments <note id>", minArgs: 1, run: a.listAttachments},
		{name: "history", usage: "history <note id> <filename>", minArgs: 2, run: a.history},
		{name: "download", usage: "download <attachment id> <path>", minArgs: 2, run: a.download},
		{name: "detach", usage: "detach <note id> <attachment id>", minArgs: 2, run: a.detach},

		{name: "vault", usage: vaultUsage, minArgs: 1, run: a.vault},

		{name: "sync", usage: "sync", run: a.sync},
		{name: "status", usage: "status", run: a.status},
		{name: "queue", usage: "queue", run: a.queue},
		{name: "requeue", usage: "requeue [seq]", run: a.requeue},
	}
}
