package event

import "github.com/lbtl/engine/internal/core/ecs"

type PrefabLoaded struct {
	Name     string
	Nodes    int
	Vertices int
	Indices  int
}

type PrefabReleased struct {
	Name string
}

type InstanceSpawned struct {
	Root     ecs.EntityID
	Prefab   string
	Entities int
}

type InstanceDespawned struct {
	Root     ecs.EntityID
	Entities int
}
