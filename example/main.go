package main

import (
	"fmt"
	"log"

	"github.com/theflywheel/dhash"
)

func main() {
	t := dhash.New()
	defer t.Close()

	fmt.Println("Hash table created successfully")

	// Insert some data
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := fmt.Sprintf("%d", i*100)

		if err := t.Insert(key, value); err != nil {
			log.Fatalf("Failed to insert key %d: %v", i, err)
		}
	}

	fmt.Println("Inserted 10 key-value pairs")

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		key := fmt.Sprintf("key-%d", i)

		value, found := t.Search(key)
		if found {
			fmt.Printf("Key %s => Value %s\n", key, value)
		} else {
			fmt.Printf("Key %s not found\n", key)
		}
	}

	// Update a value
	if err := t.Insert("key-2", "999"); err != nil {
		log.Fatalf("Failed to update key: %v", err)
	}

	// Verify the update
	if value, found := t.Search("key-2"); found {
		fmt.Printf("Updated key-2 => Value %s\n", value)
	}

	// Delete a value
	if t.Delete("key-4") {
		fmt.Println("Deleted key-4")
	}

	fmt.Printf("Count %d, capacity %d\n", t.Count(), t.Capacity())
	fmt.Println("Example completed successfully")
}
