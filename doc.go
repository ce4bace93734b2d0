/*
Package ecs provides an Entity-Component-System (ECS) runtime for games
and simulations.

ecs offers a performant approach to managing game entities through
component-based design. It's built on an archetype-based storage system
(package archetype) that keeps entities with the same component types
packed together in fixed-size, column-oriented chunks, so iteration over
a component set never touches memory for components a query didn't ask
for.

A Registry owns an entity pool, an archetype graph, and the location of
every live entity. Structural changes (Create/Set/Remove/Destroy) mutate
the registry directly when called from a single thread; systems that run
in parallel under package schedule instead route their structural changes
through a Writer, which stages them in a per-worker command buffer
(package ecs/cmdbuf) and replays them on the main thread between waves.
*/
package ecs
