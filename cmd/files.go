package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pal-save-edit/gvas"
	"pal-save-edit/palworld"
)

const (
	levelSaveName  = "Level.sav"
	playersDirName = "Players"
)

func dumpName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readSaveFile decodes the .sav at path and writes the debug dumps enabled
// in the config.
func readSaveFile(path string, types *gvas.Types) (*palworld.SaveFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	container, err := palworld.ReadContainer(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	log.WithFields(logrus.Fields{
		"file": path,
		"tier": container.Tier,
		"size": len(container.Data),
	}).Debug("read container")

	if dumped, err := dumper.Binary(dumpName(path), container.Data); err != nil {
		log.WithError(err).Warn("failed to write binary dump")
	} else if dumped != "" {
		log.Debugf("wrote %s", dumped)
	}

	saveFile, err := container.SaveFile(types)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	if dumped, err := dumper.JSON(dumpName(path), saveFile.Save); err != nil {
		log.WithError(err).Warn("failed to write JSON dump")
	} else if dumped != "" {
		log.Debugf("wrote %s", dumped)
	}
	return saveFile, nil
}

func playerSavePaths(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, playersDirName, "*.sav"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no player saves in %s", filepath.Join(dir, playersDirName))
	}
	return paths, nil
}

func readPlayerSaves(dir string) ([]*gvas.Save, error) {
	paths, err := playerSavePaths(dir)
	if err != nil {
		return nil, err
	}
	saves := make([]*gvas.Save, 0, len(paths))
	for _, path := range paths {
		saveFile, err := readSaveFile(path, nil)
		if err != nil {
			return nil, err
		}
		saves = append(saves, saveFile.Save)
	}
	return saves, nil
}

// writeSaveFile encodes saveFile to path, first copying the existing file to
// path+suffix when backup is set. An existing backup is kept, so repeated runs
// never replace the untouched original.
func writeSaveFile(path string, saveFile *palworld.SaveFile, backup bool, suffix string) error {
	data, err := saveFile.Bytes()
	if err != nil {
		return errors.Wrap(err, "failed to encode save")
	}

	if backup {
		if err := backupFile(path, path+suffix); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write save")
	}
	return os.Rename(tmp, path)
}

func backupFile(path, backupPath string) error {
	if _, err := os.Stat(backupPath); err == nil {
		log.Infof("backup %s already exists, keeping it", backupPath)
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to check backup")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read save for backup")
	}
	if err := os.WriteFile(backupPath, original, 0644); err != nil {
		return errors.Wrap(err, "failed to write backup")
	}
	log.Infof("backed up %s to %s", path, backupPath)
	return nil
}
