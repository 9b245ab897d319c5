package palworld

import "pal-save-edit/gvas"

var guidStructPaths = []string{
	".worldSaveData.GroupSaveDataMap.Key",
	".worldSaveData.BaseCampSaveData.Key",
	".worldSaveData.MapObjectSpawnerInStageSaveData.SpawnerDataMapByLevelObjectInstanceId.Key",
}

var nestedStructPaths = []string{
	".worldSaveData.CharacterSaveParameterMap.Key",
	".worldSaveData.CharacterSaveParameterMap.Value",
	".worldSaveData.FoliageGridSaveDataMap.Key",
	".worldSaveData.FoliageGridSaveDataMap.Value",
	".worldSaveData.FoliageGridSaveDataMap.ModelMap.Value",
	".worldSaveData.FoliageGridSaveDataMap.ModelMap.InstanceDataMap.Key",
	".worldSaveData.FoliageGridSaveDataMap.ModelMap.InstanceDataMap.Value",
	".worldSaveData.MapObjectSpawnerInStageSaveData.Key",
	".worldSaveData.MapObjectSpawnerInStageSaveData.Value",
	".worldSaveData.MapObjectSpawnerInStageSaveData.SpawnerDataMapByLevelObjectInstanceId.Value",
	".worldSaveData.MapObjectSpawnerInStageSaveData.SpawnerDataMapByLevelObjectInstanceId.ItemMap.Value",
	".worldSaveData.ItemContainerSaveData.Key",
	".worldSaveData.ItemContainerSaveData.Value",
	".worldSaveData.CharacterContainerSaveData.Key",
	".worldSaveData.CharacterContainerSaveData.Value",
	".worldSaveData.GroupSaveDataMap.Value",
	".worldSaveData.WorkSaveData.WorkAssignMap.Value",
	".worldSaveData.DungeonSaveData.MapObjectSaveData.Model.EffectMap.Value",
	".worldSaveData.DungeonSaveData.MapObjectSaveData.ConcreteModel.ModuleMap.Value",
	".worldSaveData.MapObjectSaveData.Model.EffectMap.Value",
	".worldSaveData.MapObjectSaveData.ConcreteModel.ModuleMap.Value",
	".worldSaveData.BaseCampSaveData.Value",
	".worldSaveData.BaseCampSaveData.ModuleMap.Value",
	".worldSaveData.EnemyCampSaveData.EnemyCampStatusMap.Value",
}

// SaveTypes returns the struct type hints Level.sav needs. Each call builds a
// new table; callers are expected to build it once and share it.
func SaveTypes() *gvas.Types {
	hints := make(map[string]string, len(guidStructPaths)+len(nestedStructPaths))
	for _, path := range guidStructPaths {
		hints[path] = gvas.StructGuid
	}
	for _, path := range nestedStructPaths {
		hints[path] = gvas.StructGeneric
	}
	return gvas.NewTypes(hints)
}
