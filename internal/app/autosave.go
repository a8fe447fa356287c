package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// autosave saves a dirty outline once the autosave interval has passed
// since the last save
func (a *App) autosave() {
	interval := a.cfg.AutosaveInterval()
	if interval <= 0 || !a.Dirty() {
		return
	}
	if time.Since(a.lastAutosave) < interval {
		return
	}
	if err := a.Save(); err != nil {
		a.logger.Error("autosave", zap.Error(err))
		a.SetStatus("Autosave failed: " + err.Error())
		return
	}
	a.SetStatus("Autosaved")
}

// backup writes a backup of doc and prunes old backups of the same file
func (a *App) backup(doc *model.Document) {
	if a.backups == nil {
		return
	}
	path, err := a.backups.CreateBackup(doc, a.fileID, a.sessionID)
	if err != nil {
		a.logger.Warn("create backup", zap.String("id", a.fileID), zap.Error(err))
		return
	}
	a.logger.Debug("backup written", zap.String("path", path))

	removed, err := a.backups.Prune(a.fileID, a.cfg.Editor.BackupKeep)
	if err != nil {
		a.logger.Warn("prune backups", zap.String("id", a.fileID), zap.Error(err))
		return
	}
	if removed > 0 {
		a.logger.Debug("backups pruned", zap.String("id", a.fileID), zap.Int("removed", removed))
	}
}
